// Package branding holds product naming shared by every runtime.
package branding

// AppName is the user-facing product name.
const AppName = "Aolastar"
