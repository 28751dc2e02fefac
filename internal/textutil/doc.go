// Package textutil provides filename sanitization for model-derived names.
package textutil
