package composer

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

var webmHead = []byte("\x1a\x45\xdf\xa3\x9f\x42\x86\x81\x01\x42\xf7\x81\x01\x42\xf2\x81\x04\x42\xf3\x81\x08\x42\x82\x84webm")

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

// fullInput fills every table field plus a few that are never allowed.
func fullInput(t *testing.T) Input {
	in := Input{Values: map[string]string{}, Files: map[string]Upload{}}
	for _, spec := range entitlements.Fields {
		switch spec.Name {
		case entitlements.FieldProfilePic:
			in.Files[string(spec.Name)] = Upload{Filename: "me.png", Data: pngBytes(t)}
		case entitlements.FieldVideoIntro:
			in.Files[string(spec.Name)] = Upload{Filename: "intro.webm", Data: webmHead}
		default:
			in.Values[string(spec.Name)] = "value of " + string(spec.Name)
		}
	}
	in.Values["subscription_type"] = "premium"
	in.Values["is_admin"] = "true"
	in.Files["resume"] = Upload{Filename: "cv.pdf", Data: []byte("%PDF-1.4")}
	return in
}

func TestComposeNeverSendsFieldsOutsideTier(t *testing.T) {
	for _, mode := range []Mode{ModeCreate, ModeEdit} {
		for _, tier := range entitlements.Tiers {
			form, err := Compose(mode, tier, fullInput(t))
			require.NoError(t, err, "mode=%s tier=%s", mode, tier)

			allowed := map[string]bool{}
			for _, spec := range entitlements.AllowedFields(tier) {
				allowed[string(spec.Name)] = true
			}

			sent := map[string]bool{}
			for _, name := range form.Names() {
				sent[name] = true
				if name == "subscription_type" {
					assert.Equal(t, ModeCreate, mode, "subscription_type only goes out on create")
					continue
				}
				assert.True(t, allowed[name], "mode=%s tier=%s sent %s", mode, tier, name)
			}

			for _, spec := range entitlements.Fields {
				name := string(spec.Name)
				assert.Equal(t, allowed[name], sent[name], "mode=%s tier=%s field=%s", mode, tier, name)
			}
		}
	}
}

func TestComposeCreateAppendsConfirmedTier(t *testing.T) {
	in := fullInput(t)
	in.Values["subscription_type"] = "premium"

	form, err := Compose(ModeCreate, entitlements.TierStandard, in)
	require.NoError(t, err)

	v, ok := form.Value("subscription_type")
	require.True(t, ok)
	assert.Equal(t, "standard", v)
}

func TestComposeCreateSkipsEmptyValues(t *testing.T) {
	in := Input{Values: map[string]string{
		"name":               "Jane",
		"job_title":          "Engineer",
		"job_specialization": "Backend",
		"email":              "  ",
		"skills":             "",
	}}

	form, err := Compose(ModeCreate, entitlements.TierStandard, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "job_title", "job_specialization", "subscription_type"}, form.Names())
}

func TestComposeCreateRequiresCoreFields(t *testing.T) {
	_, err := Compose(ModeCreate, entitlements.TierFree, Input{Values: map[string]string{"name": "Jane"}})

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, entitlements.FieldJobTitle, fe.Field)
}

func TestComposeEditSendsClearedTextAndOnlyNewFiles(t *testing.T) {
	in := Input{
		Values: map[string]string{"name": "Jane", "skills": ""},
		Files:  map[string]Upload{"profile_pic": {Filename: "me.png"}},
	}

	form, err := Compose(ModeEdit, entitlements.TierPremium, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "skills"}, form.Names())
	assert.Empty(t, form.Files)

	_, err = Compose(ModeEdit, entitlements.TierPremium, Input{Values: map[string]string{"name": " "}})
	assert.Error(t, err)
}

func TestComposeRejectsBadUploads(t *testing.T) {
	in := Input{
		Values: map[string]string{"name": "Jane", "job_title": "Engineer", "job_specialization": "Go"},
		Files:  map[string]Upload{"profile_pic": {Filename: "me.png", Data: []byte("<html></html>")}},
	}
	_, err := Compose(ModeCreate, entitlements.TierFree, in)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, entitlements.FieldProfilePic, fe.Field)

	in.Files = map[string]Upload{"video_intro": {Filename: "intro.exe", Data: []byte("MZ")}}
	_, err = Compose(ModeCreate, entitlements.TierPremium, in)
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, entitlements.FieldVideoIntro, fe.Field)

	// disallowed for free, so never inspected
	_, err = Compose(ModeCreate, entitlements.TierFree, in)
	assert.NoError(t, err)
}
