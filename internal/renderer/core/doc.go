// Package core provides the color, style and cell types shared by the
// renderer packages.
package core
