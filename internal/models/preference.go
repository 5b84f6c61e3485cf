package models

// UserPreference holds per-user UI and prompting preferences
type UserPreference struct {
	ID                      string `json:"preference_id"`
	Language                string `json:"language"`
	PreferredPromptTemplate string `json:"preferred_prompt_template,omitempty"`
	VoiceEnabled            bool   `json:"voice_enabled"`
}

// PreferenceUpdate is a partial update: only non-nil fields are applied,
// others keep their stored value.
type PreferenceUpdate struct {
	Language                *string `json:"language,omitempty"`
	PreferredPromptTemplate *string `json:"preferred_prompt_template,omitempty"`
	VoiceEnabled            *bool   `json:"voice_enabled,omitempty"`
}

// Apply writes the provided fields onto the preference
func (u *PreferenceUpdate) Apply(pref *UserPreference) {
	if u.Language != nil {
		pref.Language = *u.Language
	}
	if u.PreferredPromptTemplate != nil {
		pref.PreferredPromptTemplate = *u.PreferredPromptTemplate
	}
	if u.VoiceEnabled != nil {
		pref.VoiceEnabled = *u.VoiceEnabled
	}
}
