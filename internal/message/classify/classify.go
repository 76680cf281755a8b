// Package classify partitions submitted form fields into primary slots,
// secondary fields, and a label source.
//
// The partition is total and disjoint: every submitted field lands in exactly
// one of {label source, excluded, primary, secondary}. Classification never
// fails; unrecognized or malformed input degrades to secondary storage.
package classify

import "strings"

// PageTitleTemplate is the sentinel template name that derives the label from
// the origin page rather than a submitted or metadata value. The storage
// collaborator owns the derivation rule.
const PageTitleTemplate = "pageTitle"

// OptionKey is a configured field key. A value wrapped in literal brackets
// ("[topic]") is a template reference resolved against submission metadata;
// any other form is a literal field name. The distinction is resolved once,
// when the key is parsed, not re-checked at call sites.
type OptionKey struct {
	raw      string
	name     string
	template bool
}

// ParseOptionKey interprets a configured key, detecting the bracket wrapper.
func ParseOptionKey(raw string) OptionKey {
	if len(raw) >= 2 && strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return OptionKey{raw: raw, name: raw[1 : len(raw)-1], template: true}
	}
	return OptionKey{raw: raw, name: raw}
}

// LiteralKey builds a literal (non-template) key without bracket detection.
func LiteralKey(name string) OptionKey {
	return OptionKey{raw: name, name: name}
}

// Raw returns the key as configured, brackets included.
func (k OptionKey) Raw() string { return k.raw }

// Name returns the inner name for template keys and the literal name
// otherwise.
func (k OptionKey) Name() string { return k.name }

// IsTemplate reports whether the key is a bracket-wrapped template reference.
func (k OptionKey) IsTemplate() bool { return k.template }

// Schema holds the configured keys that map submitted fields onto the
// semantic attributes of a Message.
type Schema struct {
	Label OptionKey
	Email OptionKey
	Name  OptionKey
	Form  OptionKey
}

// Slot names a semantic Message attribute a primary field maps onto. The set
// is fixed; configuration only decides which submitted key feeds each slot.
type Slot string

const (
	SlotEmail Slot = "email"
	SlotName  Slot = "name"
	SlotForm  Slot = "form"
)

// LabelSourceKind tags how the label value for a submission was determined.
type LabelSourceKind int

const (
	// LabelNone means the submission carries no label.
	LabelNone LabelSourceKind = iota
	// LabelValue means Value holds the label name to resolve.
	LabelValue
	// LabelPageTitle means the storage-defined default-label rule decides,
	// from the submission metadata.
	LabelPageTitle
)

// LabelSource is the resolved label origin of a classified submission.
type LabelSource struct {
	Kind  LabelSourceKind
	Value string
}

// Result is a classified field set.
type Result struct {
	Primary   map[Slot]string
	Secondary map[string]string
	Label     LabelSource
}

// DefaultExclusions lists submitted keys that are never stored as fields:
// form-plugin bookkeeping and consent checkboxes. They remain visible in the
// raw submission snapshot.
func DefaultExclusions() map[string]struct{} {
	keys := []string{
		"_wpcf7_version",
		"_wpcf7_locale",
		"_wpcf7_unit_tag",
		"_wpcf7_container_post",
		"_wpcf7cf_hidden_group_fields",
		"_wpcf7cf_hidden_groups",
		"_wpcf7cf_visible_groups",
		"_wpcf7cf_repeaters",
		"_wpcf7cf_steps",
		"_wpcf7cf_options",
		"vormiurl",
		"acceptance-824",
		"acceptance-383",
		"acceptance-231",
		"acceptance-689",
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Classify partitions fields according to schema and exclusions. meta carries
// submission metadata (page context) consulted for template label keys.
//
// Label resolution priority: a pageTitle template delegates to the storage
// default-label rule; any other template reads the metadata value under its
// inner name; a literal label key takes the submitted field's value. A field
// whose key matches the label source is always consumed by label resolution,
// even when it would also match a primary slot.
func Classify(fields, meta map[string]string, schema Schema, exclusions map[string]struct{}) Result {
	res := Result{
		Primary:   make(map[Slot]string),
		Secondary: make(map[string]string),
	}

	// Metadata tier first: template label keys are resolved from the page
	// context, before any submitted field is looked at.
	if schema.Label.IsTemplate() {
		if schema.Label.Name() == PageTitleTemplate {
			res.Label = LabelSource{Kind: LabelPageTitle}
		} else if v := meta[schema.Label.Name()]; v != "" {
			res.Label = LabelSource{Kind: LabelValue, Value: v}
		}
	}

	slots := make(map[string]Slot, 3)
	for key, slot := range map[string]Slot{
		schema.Email.Raw(): SlotEmail,
		schema.Name.Raw():  SlotName,
		schema.Form.Raw():  SlotForm,
	} {
		if key != "" {
			slots[key] = slot
		}
	}

	for key, value := range fields {
		if isLabelSource(key, schema.Label) {
			// Template keys defer to the metadata tier resolved above;
			// the submitted field is consumed either way.
			if !schema.Label.IsTemplate() && value != "" {
				res.Label = LabelSource{Kind: LabelValue, Value: value}
			}
			continue
		}

		if _, excluded := exclusions[key]; excluded || value == "" {
			continue
		}

		if slot, ok := slots[key]; ok {
			res.Primary[slot] = value
			continue
		}

		res.Secondary[key] = value
	}

	return res
}

func isLabelSource(key string, label OptionKey) bool {
	if label.Raw() == "" {
		return false
	}
	if key == label.Raw() {
		return true
	}
	return label.IsTemplate() && key == label.Name()
}
