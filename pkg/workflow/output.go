package workflow

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/privacy"
	"github.com/goliatone/go-lettergen/pkg/render"
	"github.com/goliatone/go-lettergen/pkg/store"
	"github.com/goliatone/go-lettergen/pkg/substitute"
)

const previewFormat = "preview"

// Preview renders the current entry without persisting anything, so
// repeated calls return identical output. Invalid or missing required
// fields come back as a field list and nothing is rendered.
func (e *Engine) Preview(ctx context.Context, sessionID string) (PreviewResult, error) {
	session, err := e.load(ctx, "preview", sessionID, letter.StatePreviewing)
	if err != nil {
		return PreviewResult{}, err
	}

	if blocking := invalidRequired(session); len(blocking) > 0 {
		return PreviewResult{Invalid: blocking}, nil
	}

	renderer, err := e.registry.Get(previewFormat)
	if err != nil {
		return PreviewResult{}, &NotFoundError{Kind: "renderer", ID: previewFormat}
	}

	template, err := e.catalog.Get(session.TemplateID)
	if err != nil {
		return PreviewResult{}, &NotFoundError{Kind: "template", ID: session.TemplateID}
	}

	content, contentType, fellBack, err := e.renderEntry(ctx, renderer, template, session.CollectedValues, session.Signature)
	if err != nil {
		return PreviewResult{}, err
	}
	return PreviewResult{Content: content, ContentType: contentType, Fallback: fellBack}, nil
}

// Generate renders the chosen format and persists one artifact per
// accumulated entry: everything archived via add-another plus the current
// one. Artifact records pass through the privacy layer; a failure leaves
// the session in its prior state.
func (e *Engine) Generate(ctx context.Context, sessionID, format string) (GenerateResult, error) {
	session, err := e.load(ctx, "generate", sessionID, letter.StatePreviewing)
	if err != nil {
		return GenerateResult{}, err
	}
	if blocking := invalidRequired(session); len(blocking) > 0 {
		return GenerateResult{}, &ValidationError{
			Field:   blocking[0],
			Message: "required fields are not all valid",
		}
	}

	renderer, err := e.registry.Get(format)
	if err != nil {
		return GenerateResult{}, &NotFoundError{Kind: "renderer", ID: format}
	}
	template, err := e.catalog.Get(session.TemplateID)
	if err != nil {
		return GenerateResult{}, &NotFoundError{Kind: "template", ID: session.TemplateID}
	}

	entries := make([]map[string]string, 0, len(session.PendingEntries)+1)
	entries = append(entries, session.PendingEntries...)
	entries = append(entries, session.CollectedValues)

	var result GenerateResult
	for _, values := range entries {
		artifact, fellBack, err := e.buildArtifact(ctx, renderer, template, values, session.Signature)
		if err != nil {
			return GenerateResult{}, err
		}
		if err := e.artifacts.PutArtifact(ctx, artifact); err != nil {
			return GenerateResult{}, err
		}
		result.ArtifactIDs = append(result.ArtifactIDs, artifact.ID)
		result.Fallback = result.Fallback || fellBack
	}

	next := session.Clone()
	next.ArtifactIDs = append(next.ArtifactIDs, result.ArtifactIDs...)
	next.State = letter.StateGenerated
	if err := e.sessions.PutSession(ctx, next); err != nil {
		return GenerateResult{}, err
	}
	e.logger.Info("artifacts generated",
		"session_id", sessionID, "format", format, "count", len(result.ArtifactIDs))
	return result, nil
}

// Close ends a finished session.
func (e *Engine) Close(ctx context.Context, sessionID string) error {
	session, err := e.load(ctx, "close", sessionID,
		letter.StateGenerated, letter.StateComplete)
	if err != nil {
		return err
	}
	next := session.Clone()
	next.State = letter.StateComplete
	if err := e.sessions.PutSession(ctx, next); err != nil {
		return err
	}
	e.logger.Info("session closed", "session_id", sessionID)
	return nil
}

// Artifact loads one generated document record.
func (e *Engine) Artifact(ctx context.Context, id string) (letter.Artifact, error) {
	artifact, err := e.artifacts.GetArtifact(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return letter.Artifact{}, &NotFoundError{Kind: "artifact", ID: id}
	}
	return artifact, err
}

// Recipient decrypts an artifact's recipient name.
func (e *Engine) Recipient(ctx context.Context, artifactID string) (string, error) {
	artifact, err := e.Artifact(ctx, artifactID)
	if err != nil {
		return "", err
	}
	return e.codec.Decrypt(artifact.EncryptedRecipient)
}

// Download returns an artifact's content, re-rendered into the requested
// format when it differs from the stored one. An empty format means the
// stored content as-is. A re-render cannot reproduce an embedded signature
// image or the contact values the privacy layer stripped, so artifacts
// depending on either come back in their stored encoding instead.
func (e *Engine) Download(ctx context.Context, artifactID, format string) ([]byte, string, error) {
	artifact, err := e.Artifact(ctx, artifactID)
	if err != nil {
		return nil, "", err
	}
	if format == "" {
		return []byte(artifact.Content), artifact.ContentType, nil
	}

	renderer, err := e.registry.Get(format)
	if err != nil {
		return nil, "", &NotFoundError{Kind: "renderer", ID: format}
	}
	if renderer.ContentType() == artifact.ContentType {
		return []byte(artifact.Content), artifact.ContentType, nil
	}
	if artifact.Signed {
		return []byte(artifact.Content), artifact.ContentType, nil
	}

	template, err := e.catalog.Get(artifact.TemplateID)
	if err != nil {
		return nil, "", &NotFoundError{Kind: "template", ID: artifact.TemplateID}
	}
	if source, err := e.catalog.Source(template); err == nil &&
		substitute.References(source, "phone_number", "email") {
		return []byte(artifact.Content), artifact.ContentType, nil
	}
	recipient, err := e.codec.Decrypt(artifact.EncryptedRecipient)
	if err != nil {
		return nil, "", err
	}

	values := make(map[string]string, len(artifact.FieldValues)+1)
	for k, v := range artifact.FieldValues {
		values[k] = v
	}
	values["employee_name"] = recipient

	content, contentType, _, err := e.renderEntry(ctx, renderer, template, values, nil)
	if err != nil {
		return nil, "", err
	}
	return content, contentType, nil
}

// Archive bundles every artifact of a session into one zip file.
func (e *Engine) Archive(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := e.load(ctx, "archive", sessionID,
		letter.StateGenerated, letter.StateComplete)
	if err != nil {
		return nil, err
	}
	if len(session.ArtifactIDs) == 0 {
		return nil, fmt.Errorf("workflow: session %s has no artifacts", sessionID)
	}

	artifacts, err := e.artifacts.ListArtifacts(ctx, session.ArtifactIDs)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, artifact := range artifacts {
		f, err := zw.Create(artifact.ID + extensionFor(artifact.ContentType))
		if err != nil {
			return nil, fmt.Errorf("workflow: archive entry %s: %w", artifact.ID, err)
		}
		if _, err := f.Write([]byte(artifact.Content)); err != nil {
			return nil, fmt.Errorf("workflow: archive entry %s: %w", artifact.ID, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("workflow: finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// renderEntry renders one entry's values, degrading to the plain-text
// fallback on unreadable source or a renderer failure.
func (e *Engine) renderEntry(ctx context.Context, renderer render.Renderer, template letter.Template, values map[string]string, signature []byte) (content []byte, contentType string, fellBack bool, err error) {
	job := render.Job{Template: template, Values: values, Signature: signature}

	source, err := e.catalog.Source(template)
	if err != nil {
		renderErr := &RenderError{TemplateID: template.ID, Err: err}
		e.logger.Warn("falling back to plain text", "error", renderErr)
		return render.Fallback(job), "text/plain; charset=utf-8", true, nil
	}
	job.SourceText = source

	content, err = renderer.Render(ctx, job)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", false, err
		}
		renderErr := &RenderError{TemplateID: template.ID, Err: err}
		e.logger.Warn("falling back to plain text", "error", renderErr)
		return render.Fallback(job), "text/plain; charset=utf-8", true, nil
	}
	return content, renderer.ContentType(), false, nil
}

// buildArtifact renders one entry and applies the privacy layer: the
// recipient name is stored encrypted, phone and email survive only as
// lookup hashes, and the preview text is masked.
func (e *Engine) buildArtifact(ctx context.Context, renderer render.Renderer, template letter.Template, values map[string]string, signature []byte) (letter.Artifact, bool, error) {
	content, contentType, fellBack, err := e.renderEntry(ctx, renderer, template, values, signature)
	if err != nil {
		return letter.Artifact{}, false, err
	}

	encrypted, err := e.codec.Encrypt(values["employee_name"])
	if err != nil {
		return letter.Artifact{}, false, err
	}

	stored := make(map[string]string, len(values))
	for name, value := range values {
		switch name {
		case "employee_name", "phone_number", "email":
			continue
		}
		stored[name] = value
	}

	return letter.Artifact{
		ID:                 strings.ToLower(ulid.Make().String()),
		TemplateID:         template.ID,
		EncryptedRecipient: encrypted,
		PhoneHash:          privacy.HashLookup(values["phone_number"]),
		EmailHash:          privacy.HashLookup(values["email"]),
		EmployeeCode:       values["employee_code"],
		Content:            string(content),
		ContentType:        contentType,
		FieldValues:        stored,
		Signed:             len(signature) > 0,
		MaskedPreview:      privacy.MaskPreview(string(content), values),
		Status:             letter.ArtifactGenerated,
		CreatedAt:          e.now().UTC(),
	}, fellBack, nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "text/html"):
		return ".html"
	case strings.HasPrefix(contentType, "application/rtf"):
		return ".rtf"
	default:
		return ".txt"
	}
}
