package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-lettergen/pkg/bulk"
	"github.com/goliatone/go-lettergen/pkg/letter"
)

// SubmitBulk imports tabular rows against the session's template. Missing
// required columns reject the whole batch before any rendering; a failing
// value only fails its own row. Every valid row becomes one artifact in
// the given output format and the session completes.
func (e *Engine) SubmitBulk(ctx context.Context, sessionID string, rawRows []map[string]string, format string) (BulkResult, error) {
	session, err := e.load(ctx, "submit_bulk", sessionID,
		letter.StateInputMethodChosen, letter.StateCollectingBulk)
	if err != nil {
		return BulkResult{}, err
	}
	if len(rawRows) == 0 {
		return BulkResult{}, errors.New("workflow: bulk import has no rows")
	}
	if format == "" {
		format = "print"
	}
	renderer, err := e.registry.Get(format)
	if err != nil {
		return BulkResult{}, &NotFoundError{Kind: "renderer", ID: format}
	}
	template, err := e.catalog.Get(session.TemplateID)
	if err != nil {
		return BulkResult{}, &NotFoundError{Kind: "template", ID: session.TemplateID}
	}

	rows := make([]bulk.Row, 0, len(rawRows))
	columns := make(map[string]struct{})
	for _, raw := range rawRows {
		row := bulk.NormalizeRow(raw)
		e.applySessionDefaults(session, row)
		for name := range row {
			columns[name] = struct{}{}
		}
		rows = append(rows, row)
	}

	report := bulk.CheckColumns(keys(columns), session.RequiredFields, session.OptionalFields)
	result := BulkResult{Missing: report.Missing, Warnings: report.Warnings}
	if result.Rejected() {
		e.logger.Info("bulk batch rejected",
			"session_id", sessionID, "missing_columns", len(report.Missing))
		return result, nil
	}

	validIdx, rowErrs := bulk.ValidateRows(rows, session.RequiredFields)
	result.RowErrors = rowErrs

	for _, i := range validIdx {
		artifact, _, err := e.buildArtifact(ctx, renderer, template, rows[i], session.Signature)
		if err != nil {
			return BulkResult{}, err
		}
		if err := e.artifacts.PutArtifact(ctx, artifact); err != nil {
			return BulkResult{}, err
		}
		result.ArtifactIDs = append(result.ArtifactIDs, artifact.ID)
	}

	next := session.Clone()
	next.InputMethod = letter.InputBulk
	next.ArtifactIDs = append(next.ArtifactIDs, result.ArtifactIDs...)
	next.State = letter.StateComplete
	if err := e.sessions.PutSession(ctx, next); err != nil {
		return BulkResult{}, err
	}
	e.logger.Info("bulk import finished", "session_id", sessionID,
		"rows", len(rows), "artifacts", len(result.ArtifactIDs), "row_errors", len(rowErrs))
	return result, nil
}

// ImportCSV reads a bulk import file and submits its rows.
func (e *Engine) ImportCSV(ctx context.Context, sessionID string, r io.Reader, format string) (BulkResult, error) {
	rows, _, err := bulk.ParseCSV(r)
	if err != nil {
		return BulkResult{}, fmt.Errorf("workflow: %w", err)
	}
	raw := make([]map[string]string, len(rows))
	for i, row := range rows {
		raw[i] = row
	}
	return e.SubmitBulk(ctx, sessionID, raw, format)
}

// applySessionDefaults fills row gaps from session-level data: an
// uploaded signature stands in for per-row signer fields, and values
// collected before switching to bulk carry over.
func (e *Engine) applySessionDefaults(session letter.Session, row bulk.Row) {
	for name, value := range session.CollectedValues {
		if row[name] == "" {
			row[name] = value
		}
	}
	if len(session.Signature) > 0 {
		for _, name := range assetSubsumes["signatory_signature"] {
			if row[name] == "" {
				row[name] = letter.SkipSentinel
			}
		}
		if row["signatory_signature"] == "" {
			row["signatory_signature"] = letter.SkipSentinel
		}
	}
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}
