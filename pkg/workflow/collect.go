package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-lettergen/pkg/bulk"
	"github.com/goliatone/go-lettergen/pkg/catalog"
	"github.com/goliatone/go-lettergen/pkg/extractor"
	"github.com/goliatone/go-lettergen/pkg/fields"
	"github.com/goliatone/go-lettergen/pkg/letter"
)

// SelectTemplate binds a session to a template, resolved by id first and
// by display name second. Field lists come from the template source text;
// when the source is unreadable the template's stored metadata serves
// instead.
func (e *Engine) SelectTemplate(ctx context.Context, sessionID, templateRef string) (StepResult, error) {
	session, err := e.load(ctx, "select_template", sessionID,
		letter.StateInitial, letter.StateTemplateSelected)
	if err != nil {
		return StepResult{}, err
	}

	template, err := e.resolveTemplate(templateRef)
	if err != nil {
		return StepResult{}, err
	}

	required := template.RequiredFields
	optional := template.OptionalFields
	if source, err := e.catalog.Source(template); err != nil {
		e.logger.Warn("template source unreadable, using stored field lists",
			"template_id", template.ID, "error", err)
	} else if extracted, _ := extractor.Extract(source); len(extracted) > 0 {
		required = extracted
		optional = subtract(template.OptionalFields, extracted)
	}

	next := session.Clone()
	next.TemplateID = template.ID
	next.InputMethod = ""
	next.RequiredFields = required
	next.OptionalFields = optional
	next.CollectedValues = make(map[string]string)
	next.FieldStatus = make(map[string]letter.FieldStatus)
	next.PendingEntries = nil
	next.State = letter.StateTemplateSelected

	if err := e.sessions.PutSession(ctx, next); err != nil {
		return StepResult{}, err
	}
	e.logger.Info("template selected",
		"session_id", sessionID, "template_id", template.ID, "required_fields", len(required))

	return StepResult{
		SessionID: sessionID,
		State:     next.State,
		Message:   fmt.Sprintf("%s selected. %d fields to collect.", template.Name, len(required)+len(optional)),
	}, nil
}

func (e *Engine) resolveTemplate(ref string) (letter.Template, error) {
	template, err := e.catalog.Get(ref)
	if err == nil {
		return template, nil
	}
	template, err = e.catalog.ResolveName(ref)
	if errors.Is(err, catalog.ErrUnknownTemplate) {
		return letter.Template{}, &NotFoundError{Kind: "template", ID: ref}
	}
	return template, err
}

// ChooseInputMethod commits the session to manual entry or bulk import.
// Downloading a blank import file is side-effect only: the file comes
// back in the result and the session stays where it was.
func (e *Engine) ChooseInputMethod(ctx context.Context, sessionID string, method letter.InputMethod) (StepResult, error) {
	session, err := e.load(ctx, "choose_input_method", sessionID,
		letter.StateTemplateSelected, letter.StateInputMethodChosen)
	if err != nil {
		return StepResult{}, err
	}

	switch method {
	case letter.InputDownloadBlank:
		return StepResult{
			SessionID: sessionID,
			State:     session.State,
			Message:   "Fill the file and import it with bulk entry.",
			Blank:     bulk.BlankCSV(session.RequiredFields, session.OptionalFields),
		}, nil
	case letter.InputManual, letter.InputBulk:
	default:
		return StepResult{}, fmt.Errorf("workflow: unknown input method %q", method)
	}

	next := session.Clone()
	next.InputMethod = method
	if method == letter.InputManual {
		next.State = letter.StateCollectingManual
	} else {
		next.State = letter.StateCollectingBulk
	}

	if err := e.sessions.PutSession(ctx, next); err != nil {
		return StepResult{}, err
	}
	e.logger.Info("input method chosen", "session_id", sessionID, "method", method)

	return StepResult{
		SessionID: sessionID,
		State:     next.State,
		Next:      nextPrompt(next),
	}, nil
}

// SubmitField validates and stores one value for the named field. A
// rejected value comes back inline with a hint; the session is unchanged
// and nothing is stored.
func (e *Engine) SubmitField(ctx context.Context, sessionID, name, value string) (StepResult, error) {
	session, err := e.load(ctx, "submit_field", sessionID,
		letter.StateInputMethodChosen, letter.StateCollectingManual)
	if err != nil {
		return StepResult{}, err
	}

	canonical := fields.Canonical(name)
	if !contains(session.AllFields(), canonical) {
		return StepResult{}, &NotFoundError{Kind: "field", ID: name}
	}
	if fields.IsAsset(canonical) {
		return StepResult{
			SessionID: sessionID,
			State:     session.State,
			Invalid: &ValidationError{
				Field:   canonical,
				Message: fmt.Sprintf("%s expects an uploaded image, not text", fields.TitleLabel(canonical)),
				Hint:    fields.Hint(canonical),
			},
		}, nil
	}

	if ok, message := fields.Validate(canonical, value); !ok {
		e.logger.Debug("field rejected", "session_id", sessionID, "field", canonical)
		return StepResult{
			SessionID: sessionID,
			State:     session.State,
			Invalid:   &ValidationError{Field: canonical, Message: message, Hint: fields.Hint(canonical)},
		}, nil
	}

	next := session.Clone()
	next.CollectedValues[canonical] = strings.TrimSpace(value)
	next.FieldStatus[canonical] = letter.FieldValid
	next.State = letter.StateCollectingManual

	if err := e.sessions.PutSession(ctx, next); err != nil {
		return StepResult{}, err
	}

	result := StepResult{SessionID: sessionID, State: next.State, Next: nextPrompt(next)}
	if result.Next == nil {
		result.Message = "All fields collected. Add another entry or finalize."
	}
	return result, nil
}

// SkipField marks an optional field as intentionally blank. Required
// fields cannot be skipped; their placeholder presence means the document
// needs them.
func (e *Engine) SkipField(ctx context.Context, sessionID, name string) (StepResult, error) {
	session, err := e.load(ctx, "skip_field", sessionID,
		letter.StateInputMethodChosen, letter.StateCollectingManual)
	if err != nil {
		return StepResult{}, err
	}

	canonical := fields.Canonical(name)
	if !contains(session.OptionalFields, canonical) {
		if contains(session.RequiredFields, canonical) {
			return StepResult{
				SessionID: sessionID,
				State:     session.State,
				Invalid: &ValidationError{
					Field:   canonical,
					Message: fmt.Sprintf("%s is required and cannot be skipped", fields.TitleLabel(canonical)),
					Hint:    fields.Hint(canonical),
				},
			}, nil
		}
		return StepResult{}, &NotFoundError{Kind: "field", ID: name}
	}

	next := session.Clone()
	next.CollectedValues[canonical] = letter.SkipSentinel
	next.FieldStatus[canonical] = letter.FieldValid
	next.State = letter.StateCollectingManual

	if err := e.sessions.PutSession(ctx, next); err != nil {
		return StepResult{}, err
	}
	return StepResult{SessionID: sessionID, State: next.State, Next: nextPrompt(next)}, nil
}

// UploadAsset attaches a binary upload to an asset field. The asset marks
// every field it subsumes valid with the "skip" sentinel, so an uploaded
// signature image stands in for typed signer name and title.
func (e *Engine) UploadAsset(ctx context.Context, sessionID, name string, data []byte) (StepResult, error) {
	session, err := e.load(ctx, "upload_asset", sessionID,
		letter.StateInputMethodChosen, letter.StateCollectingManual, letter.StateCollectingBulk)
	if err != nil {
		return StepResult{}, err
	}

	canonical := fields.Canonical(name)
	if !fields.IsAsset(canonical) {
		return StepResult{
			SessionID: sessionID,
			State:     session.State,
			Invalid: &ValidationError{
				Field:   canonical,
				Message: fmt.Sprintf("%s is a text field, not an upload", fields.TitleLabel(canonical)),
				Hint:    fields.Hint(canonical),
			},
		}, nil
	}
	if len(data) == 0 {
		return StepResult{}, fmt.Errorf("workflow: empty asset upload for %s", canonical)
	}

	next := session.Clone()
	if canonical == "signatory_signature" {
		next.Signature = append([]byte(nil), data...)
	}
	next.CollectedValues[canonical] = letter.SkipSentinel
	next.FieldStatus[canonical] = letter.FieldValid
	for _, subsumed := range assetSubsumes[canonical] {
		next.CollectedValues[subsumed] = letter.SkipSentinel
		next.FieldStatus[subsumed] = letter.FieldValid
	}
	if next.State == letter.StateInputMethodChosen {
		next.State = letter.StateCollectingManual
	}

	if err := e.sessions.PutSession(ctx, next); err != nil {
		return StepResult{}, err
	}
	e.logger.Info("asset uploaded",
		"session_id", sessionID, "field", canonical, "bytes", len(data))

	return StepResult{SessionID: sessionID, State: next.State, Next: nextPrompt(next)}, nil
}

// Decision is the caller's choice once an entry's fields are collected.
type Decision string

const (
	// DecisionAddAnother archives the entry and collects a fresh one.
	DecisionAddAnother Decision = "add_another"
	// DecisionFinalize moves on to preview.
	DecisionFinalize Decision = "finalize"
)

// CompleteOrRepeat archives the current entry for another round, or
// finalizes collection and moves to preview. Either way the current
// entry's required fields must all be valid first.
func (e *Engine) CompleteOrRepeat(ctx context.Context, sessionID string, decision Decision) (StepResult, error) {
	session, err := e.load(ctx, "complete_or_repeat", sessionID, letter.StateCollectingManual)
	if err != nil {
		return StepResult{}, err
	}

	if blocking := invalidRequired(session); len(blocking) > 0 {
		first := blocking[0]
		return StepResult{
			SessionID: sessionID,
			State:     session.State,
			Next:      nextPrompt(session),
			Invalid: &ValidationError{
				Field:   first,
				Message: fmt.Sprintf("%s is still required", fields.TitleLabel(first)),
				Hint:    fields.Hint(first),
			},
		}, nil
	}

	next := session.Clone()
	switch decision {
	case DecisionAddAnother:
		entry := make(map[string]string, len(next.CollectedValues))
		for k, v := range next.CollectedValues {
			entry[k] = v
		}
		next.PendingEntries = append(next.PendingEntries, entry)
		next.CollectedValues = make(map[string]string)
		next.FieldStatus = make(map[string]letter.FieldStatus)
	case DecisionFinalize:
		next.State = letter.StatePreviewing
	default:
		return StepResult{}, fmt.Errorf("workflow: unknown decision %q", decision)
	}

	if err := e.sessions.PutSession(ctx, next); err != nil {
		return StepResult{}, err
	}
	e.logger.Info("entry completed",
		"session_id", sessionID, "decision", decision, "pending_entries", len(next.PendingEntries))

	result := StepResult{SessionID: sessionID, State: next.State}
	if decision == DecisionAddAnother {
		result.Message = fmt.Sprintf("Entry %d saved. Starting the next one.", len(next.PendingEntries))
		result.Next = nextPrompt(next)
	}
	return result, nil
}

// BlankTemplate builds the downloadable import file for the session's
// template: readable column headers plus one example row.
func (e *Engine) BlankTemplate(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := e.load(ctx, "blank_template", sessionID,
		letter.StateTemplateSelected, letter.StateInputMethodChosen, letter.StateCollectingBulk)
	if err != nil {
		return nil, err
	}
	return bulk.BlankCSV(session.RequiredFields, session.OptionalFields), nil
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

func subtract(names, remove []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !contains(remove, name) {
			out = append(out, name)
		}
	}
	return out
}
