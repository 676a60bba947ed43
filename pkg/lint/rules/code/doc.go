// Package code contains the rules for Python source modules. They work on
// the line-level lint.CodeTree: its lines, encoding declaration and imports.
package code

// group is the selection group every built-in rule belongs to.
const group = "odoolint"
