package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

// Text accepts strings, numbers, null and string lists from the backend.
// Lists are joined with ", ".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			var inner Text
			if err := inner.UnmarshalJSON(item); err != nil {
				return err
			}
			if inner != "" {
				parts = append(parts, string(inner))
			}
		}
		*t = Text(strings.Join(parts, ", "))
	case '{':
		return fmt.Errorf("unexpected object for text field")
	default:
		*t = Text(string(data))
	}
	return nil
}

// Profile as returned by /get_profile/ and /verify-share/{token}/.
// Shared profiles only carry the fields the owner's tier exposes.
type Profile struct {
	ID                int64 `json:"id"`
	Name              Text  `json:"name"`
	JobTitle          Text  `json:"job_title"`
	JobSpecialization Text  `json:"job_specialization"`
	ProfilePic        Text  `json:"profile_pic"`
	Email             Text  `json:"email"`
	Mobile            Text  `json:"mobile"`
	Services          Text  `json:"services"`
	Experiences       Text  `json:"experiences"`
	Skills            Text  `json:"skills"`
	Tools             Text  `json:"tools"`
	Education         Text  `json:"education"`
	Certifications    Text  `json:"certifications"`
	Portfolio         Text  `json:"portfolio"`
	VideoIntro        Text  `json:"video_intro"`
	SubscriptionType  Text  `json:"subscription_type"`
}

func (p *Profile) Tier() entitlements.Tier {
	return entitlements.NormalizeTier(string(p.SubscriptionType))
}

// Value returns the raw value of a table field.
func (p *Profile) Value(f entitlements.Field) string {
	switch f {
	case entitlements.FieldName:
		return string(p.Name)
	case entitlements.FieldJobTitle:
		return string(p.JobTitle)
	case entitlements.FieldJobSpecialization:
		return string(p.JobSpecialization)
	case entitlements.FieldProfilePic:
		return string(p.ProfilePic)
	case entitlements.FieldEmail:
		return string(p.Email)
	case entitlements.FieldMobile:
		return string(p.Mobile)
	case entitlements.FieldServices:
		return string(p.Services)
	case entitlements.FieldExperiences:
		return string(p.Experiences)
	case entitlements.FieldSkills:
		return string(p.Skills)
	case entitlements.FieldTools:
		return string(p.Tools)
	case entitlements.FieldEducation:
		return string(p.Education)
	case entitlements.FieldCertifications:
		return string(p.Certifications)
	case entitlements.FieldPortfolio:
		return string(p.Portfolio)
	case entitlements.FieldVideoIntro:
		return string(p.VideoIntro)
	default:
		return ""
	}
}

// Values returns the text fields as form values, used to prefill the edit form.
func (p *Profile) Values() map[entitlements.Field]string {
	out := make(map[entitlements.Field]string, len(entitlements.Fields))
	for _, spec := range entitlements.Fields {
		if spec.IsFile() {
			continue
		}
		out[spec.Name] = p.Value(spec.Name)
	}
	return out
}

type ProfileEntry struct {
	Spec  entitlements.FieldSpec
	Value string
}

// Entries lists the non-empty fields in table order. Nothing outside the
// response is assumed.
func (p *Profile) Entries() []ProfileEntry {
	var out []ProfileEntry
	for _, spec := range entitlements.Fields {
		v := strings.TrimSpace(p.Value(spec.Name))
		if v == "" {
			continue
		}
		out = append(out, ProfileEntry{Spec: spec, Value: v})
	}
	return out
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug is the lower-case, dash separated name used in public URLs.
func (p *Profile) Slug() string {
	s := slugRe.ReplaceAllString(strings.ToLower(string(p.Name)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "profile"
	}
	return s
}

// PublicURL builds {base}/{slug}-{id}.
func (p *Profile) PublicURL(base string) string {
	return fmt.Sprintf("%s/%s-%d", strings.TrimRight(base, "/"), p.Slug(), p.ID)
}

// ProfileStatus is the /profile_status/ answer.
type ProfileStatus struct {
	HasProfile       bool   `json:"has_profile"`
	SubscriptionType string `json:"subscription_type,omitempty"`
}
