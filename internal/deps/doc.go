// Package deps reports whether the external programs and model weights
// vidscribe needs are installed. It checks presence and invocability only.
package deps
