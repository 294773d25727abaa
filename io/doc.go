// Package io provides the host side glue of the CHIP-8 interpreter:
// reading and saving program images (Rom), and rendering the display
// as text (Screen).
package io
