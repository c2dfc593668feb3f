package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// FloatFromPtrWithDefault returns the first non-nil *float64 value, or the fallback.
func FloatFromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// StrPtrOrNil returns nil for the empty string and &s otherwise.
func StrPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
