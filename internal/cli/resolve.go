package cli

import (
	"context"
	"fmt"
	"strings"

	usecase "github.com/alexanderramin/margindefense/internal/app"
)

// candidate is an entity that can be addressed from the command line.
type candidate struct {
	ID   string
	Name string
}

// matchID resolves input against candidates, trying in order:
//  1. exact UUID
//  2. exact name (case-insensitive)
//  3. UUID prefix
func matchID(kind, input string, cands []candidate) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}

	for _, c := range cands {
		if c.ID == input {
			return c.ID, nil
		}
	}

	var named []string
	for _, c := range cands {
		if c.Name != "" && strings.EqualFold(c.Name, input) {
			named = append(named, c.ID)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}

	var matches []string
	for _, c := range cands {
		if strings.HasPrefix(c.ID, strings.ToLower(input)) {
			matches = append(matches, c.ID)
		}
	}

	switch len(matches) {
	case 0:
		if len(named) > 1 {
			return "", fmt.Errorf("%s name %q is ambiguous (%d matches)", kind, input, len(named))
		}
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveClientID(ctx context.Context, app *App, input string) (string, error) {
	clients, err := app.Clients.List(ctx)
	if err != nil {
		return "", err
	}
	cands := make([]candidate, 0, len(clients))
	for _, c := range clients {
		cands = append(cands, candidate{ID: c.ID, Name: c.Name})
	}
	return matchID("client", input, cands)
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	projects, err := app.Projects.List(ctx, "")
	if err != nil {
		return "", err
	}
	cands := make([]candidate, 0, len(projects))
	for _, p := range projects {
		cands = append(cands, candidate{ID: p.ID, Name: p.Name})
	}
	return matchID("project", input, cands)
}

func resolveWorkLogID(ctx context.Context, app *App, input string) (string, error) {
	logs, err := app.WorkLogs.List(ctx, usecase.WorkLogQuery{})
	if err != nil {
		return "", err
	}
	cands := make([]candidate, 0, len(logs))
	for _, w := range logs {
		cands = append(cands, candidate{ID: w.ID})
	}
	return matchID("work log", input, cands)
}

func resolveScopeRequestID(ctx context.Context, app *App, input string) (string, error) {
	reqs, err := app.Scope.List(ctx, nil)
	if err != nil {
		return "", err
	}
	cands := make([]candidate, 0, len(reqs))
	for _, r := range reqs {
		cands = append(cands, candidate{ID: r.ID})
	}
	return matchID("scope request", input, cands)
}

// resolveOptional resolves a flag value that may be empty.
func resolveOptional(ctx context.Context, app *App, input string, resolve func(context.Context, *App, string) (string, error)) (*string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	id, err := resolve(ctx, app, input)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
