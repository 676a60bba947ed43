// Package catalog contains the rules for gettext translation catalogs.
package catalog

const group = "odoolint"
