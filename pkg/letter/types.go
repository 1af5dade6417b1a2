package letter

import "time"

// State identifies where a generation session sits in the conversation.
type State string

const (
	StateInitial           State = "initial"
	StateTemplateSelected  State = "template_selected"
	StateInputMethodChosen State = "input_method_chosen"
	StateCollectingManual  State = "collecting_manual"
	StateCollectingBulk    State = "collecting_bulk"
	StatePreviewing        State = "previewing"
	StateGenerated         State = "generated"
	StateComplete          State = "complete"
	StateError             State = "error"
)

// InputMethod selects how field values reach a session.
type InputMethod string

const (
	InputManual        InputMethod = "manual"
	InputBulk          InputMethod = "bulk"
	InputDownloadBlank InputMethod = "download_blank"
)

// FieldStatus records the validation outcome for a collected value.
type FieldStatus string

const (
	FieldValid   FieldStatus = "valid"
	FieldInvalid FieldStatus = "invalid"
)

// SkipSentinel marks a field that is intentionally blank because a
// superseding asset (such as an uploaded signature) supplies it. Renderers
// treat it as an empty value.
const SkipSentinel = "skip"

// Template describes a published letter template. Templates are immutable
// once published; the administrative process that creates them is out of
// scope for this module.
type Template struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Category        string   `json:"category" yaml:"category"`
	SourceReference string   `json:"source_reference" yaml:"source_reference"`
	RequiredFields  []string `json:"required_fields" yaml:"required_fields"`
	OptionalFields  []string `json:"optional_fields" yaml:"optional_fields"`
	UsesLogo        bool     `json:"uses_logo" yaml:"uses_logo"`
	UsesLetterhead  bool     `json:"uses_letterhead" yaml:"uses_letterhead"`
	Active          bool     `json:"active" yaml:"active"`
}

// Session is one conversational thread. A session must never be shared
// across concurrent callers; the store serializes writes per session id.
type Session struct {
	ID              string                 `json:"id"`
	OwnerID         string                 `json:"owner_id"`
	State           State                  `json:"state"`
	TemplateID      string                 `json:"template_id,omitempty"`
	InputMethod     InputMethod            `json:"input_method,omitempty"`
	RequiredFields  []string               `json:"required_fields,omitempty"`
	OptionalFields  []string               `json:"optional_fields,omitempty"`
	CollectedValues map[string]string      `json:"collected_values,omitempty"`
	FieldStatus     map[string]FieldStatus `json:"field_status,omitempty"`
	Signature       []byte                 `json:"signature,omitempty"`
	PendingEntries  []map[string]string    `json:"pending_entries,omitempty"`
	ArtifactIDs     []string               `json:"artifact_ids,omitempty"`
}

// Clone returns a deep copy so engine mutations stay invisible until the
// store commits.
func (s Session) Clone() Session {
	out := s
	out.RequiredFields = append([]string(nil), s.RequiredFields...)
	out.OptionalFields = append([]string(nil), s.OptionalFields...)
	out.ArtifactIDs = append([]string(nil), s.ArtifactIDs...)
	out.Signature = append([]byte(nil), s.Signature...)
	if s.CollectedValues != nil {
		out.CollectedValues = make(map[string]string, len(s.CollectedValues))
		for k, v := range s.CollectedValues {
			out.CollectedValues[k] = v
		}
	}
	if s.FieldStatus != nil {
		out.FieldStatus = make(map[string]FieldStatus, len(s.FieldStatus))
		for k, v := range s.FieldStatus {
			out.FieldStatus[k] = v
		}
	}
	if s.PendingEntries != nil {
		out.PendingEntries = make([]map[string]string, 0, len(s.PendingEntries))
		for _, entry := range s.PendingEntries {
			copied := make(map[string]string, len(entry))
			for k, v := range entry {
				copied[k] = v
			}
			out.PendingEntries = append(out.PendingEntries, copied)
		}
	}
	return out
}

// AllFields returns required fields followed by optional ones, preserving
// declaration order.
func (s Session) AllFields() []string {
	out := make([]string, 0, len(s.RequiredFields)+len(s.OptionalFields))
	out = append(out, s.RequiredFields...)
	out = append(out, s.OptionalFields...)
	return out
}

// ArtifactStatus tracks the lifecycle of a generated document record.
type ArtifactStatus string

const (
	ArtifactDraft     ArtifactStatus = "draft"
	ArtifactGenerated ArtifactStatus = "generated"
	ArtifactSent      ArtifactStatus = "sent"
	ArtifactSigned    ArtifactStatus = "signed"
)

// Artifact is a generated, persisted document record. The recipient name is
// stored encrypted; phone and email survive only as lookup hashes.
type Artifact struct {
	ID                 string            `json:"id"`
	TemplateID         string            `json:"template_id"`
	EncryptedRecipient string            `json:"encrypted_recipient_name"`
	PhoneHash          string            `json:"phone_hash,omitempty"`
	EmailHash          string            `json:"email_hash,omitempty"`
	EmployeeCode       string            `json:"employee_code,omitempty"`
	Content            string            `json:"rendered_content"`
	ContentType        string            `json:"content_type"`
	FieldValues        map[string]string `json:"field_values"`
	Signed             bool              `json:"signed,omitempty"`
	MaskedPreview      string            `json:"masked_preview_text"`
	Status             ArtifactStatus    `json:"status"`
	CreatedAt          time.Time         `json:"created_at"`
}
