package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every record logged under a context.
type LogFields struct {
	Command        string
	OrganizationID string
}

// WithLogFields merges fields into the context; non-empty values win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := GetLogFields(ctx)
	if fields.Command != "" {
		merged.Command = fields.Command
	}
	if fields.OrganizationID != "" {
		merged.OrganizationID = fields.OrganizationID
	}
	return context.WithValue(ctx, logFieldsKey, merged)
}

func GetLogFields(ctx context.Context) LogFields {
	if ctx == nil {
		return LogFields{}
	}
	if f, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return f
	}
	return LogFields{}
}
