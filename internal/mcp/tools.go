package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/models"
)

var errNoUser = errors.New("no authenticated user bound to this connection")

// requireUser pulls the bound user out of the context; tools never run
// without one.
func requireUser(ctx context.Context) (uuid.UUID, error) {
	id := UserIDFromContext(ctx)
	if id == uuid.Nil {
		return uuid.Nil, errNoUser
	}
	return id, nil
}

// resolveExercise finds an exercise definition by name, exact match first,
// then unambiguous substring. Resolving by name keeps tool calls readable;
// models rarely hold stable UUIDs across turns.
func (h *handlers) resolveExercise(ctx context.Context, userID uuid.UUID, name string) (*models.ExerciseDefinition, error) {
	exercises, err := h.ds.ListExercises(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range exercises {
		if strings.EqualFold(exercises[i].Name, name) {
			return &exercises[i], nil
		}
	}

	var matches []*models.ExerciseDefinition
	lower := strings.ToLower(name)
	for i := range exercises {
		if strings.Contains(strings.ToLower(exercises[i].Name), lower) {
			matches = append(matches, &exercises[i])
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no exercise named %q", name)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, fmt.Errorf("%q is ambiguous, matches: %s", name, strings.Join(names, ", "))
	}
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all exercises the user has defined, alphabetically by name."),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List the user's workout templates (named day plans within a split)."),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List completed workout sessions, newest first. Each entry includes the session score and the originating template's name when that template still exists."),
	mcp.WithString("template_id", mcp.Description("Optional template UUID to filter by.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to 20.")),
)

var toolExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Session-by-session history for one exercise, oldest first. Each entry lists the sets performed (reps, weight, score) and the per-session total."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press'). Case-insensitive; partial names work when unambiguous.")),
)

var toolExerciseSummary = mcp.NewTool("get_exercise_summary",
	mcp.WithDescription("Lifetime statistics for one exercise: total sessions and sets, total volume (weight x reps), best set, average session score, and last performed date. All zeros means the exercise exists but has never been performed."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name. Case-insensitive; partial names work when unambiguous.")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	exercises, err := h.ds.ListExercises(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	templates, err := h.ds.ListTemplates(ctx, uid, nil)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(templates)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var templateID *uuid.UUID
	if v := req.GetString("template_id", ""); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return mcp.NewToolResultError("invalid template_id: " + err.Error()), nil
		}
		templateID = &id
	}

	sessions, err := h.ds.ListCompletedSessions(ctx, uid, templateID)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	limit := req.GetInt("limit", 20)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	def, err := h.resolveExercise(ctx, uid, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	history, err := h.ds.ExerciseHistory(ctx, uid, def.ID)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": def.Name,
		"sessions": history,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exerciseSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	def, err := h.resolveExercise(ctx, uid, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := h.ds.GetExerciseSummary(ctx, uid, def.ID)
	if err != nil {
		h.log.Error("mcp get_exercise_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
