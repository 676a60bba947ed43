// Package manifest contains the rules for module manifests. Each rule reads
// the parsed lint.ManifestMap; a manifest that fails to parse is reported
// once as manifest-syntax-error instead.
package manifest

const group = "odoolint"
