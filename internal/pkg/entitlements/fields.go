package entitlements

// Field is a profile attribute as named on the backend wire.
type Field string

const (
	FieldName              Field = "name"
	FieldJobTitle          Field = "job_title"
	FieldJobSpecialization Field = "job_specialization"
	FieldProfilePic        Field = "profile_pic"
	FieldEmail             Field = "email"
	FieldMobile            Field = "mobile"
	FieldServices          Field = "services"
	FieldExperiences       Field = "experiences"
	FieldSkills            Field = "skills"
	FieldTools             Field = "tools"
	FieldEducation         Field = "education"
	FieldCertifications    Field = "certifications"
	FieldPortfolio         Field = "portfolio"
	FieldVideoIntro        Field = "video_intro"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindFile     FieldKind = "file"
)

type FieldSpec struct {
	Name     Field
	Label    string
	Kind     FieldKind
	MinTier  Tier
	Required bool
	Accept   string
}

func (f FieldSpec) IsFile() bool {
	return f.Kind == KindFile
}

// Fields is the single source of truth for tier gating. The composer form,
// submission filtering and the public profile view all read it.
var Fields = []FieldSpec{
	{Name: FieldName, Label: "Name", Kind: KindText, MinTier: TierFree, Required: true},
	{Name: FieldJobTitle, Label: "Job Title", Kind: KindText, MinTier: TierFree, Required: true},
	{Name: FieldJobSpecialization, Label: "Job Specialization", Kind: KindText, MinTier: TierFree, Required: true},
	{Name: FieldProfilePic, Label: "Profile Picture", Kind: KindFile, MinTier: TierFree, Accept: "image/*"},
	{Name: FieldEmail, Label: "Email", Kind: KindText, MinTier: TierStandard},
	{Name: FieldMobile, Label: "Mobile", Kind: KindText, MinTier: TierStandard},
	{Name: FieldServices, Label: "Services", Kind: KindTextArea, MinTier: TierStandard},
	{Name: FieldExperiences, Label: "Experiences", Kind: KindTextArea, MinTier: TierStandard},
	{Name: FieldSkills, Label: "Skills", Kind: KindTextArea, MinTier: TierStandard},
	{Name: FieldTools, Label: "Tools", Kind: KindTextArea, MinTier: TierStandard},
	{Name: FieldEducation, Label: "Education", Kind: KindTextArea, MinTier: TierPremium},
	{Name: FieldCertifications, Label: "Certifications", Kind: KindTextArea, MinTier: TierPremium},
	{Name: FieldPortfolio, Label: "Portfolio", Kind: KindTextArea, MinTier: TierPremium},
	{Name: FieldVideoIntro, Label: "Video Introduction", Kind: KindFile, MinTier: TierPremium, Accept: "video/*"},
}

// Allows reports whether the tier may submit or display the field.
// Unknown fields are never allowed.
func Allows(t Tier, f Field) bool {
	spec, ok := Lookup(f)
	if !ok {
		return false
	}
	return t.Rank() >= spec.MinTier.Rank()
}

// AllowedFields returns the specs available to a tier, in display order.
func AllowedFields(t Tier) []FieldSpec {
	out := make([]FieldSpec, 0, len(Fields))
	for _, spec := range Fields {
		if t.Rank() >= spec.MinTier.Rank() {
			out = append(out, spec)
		}
	}
	return out
}

func Lookup(f Field) (FieldSpec, bool) {
	for _, spec := range Fields {
		if spec.Name == f {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
