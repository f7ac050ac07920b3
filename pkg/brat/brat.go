// Package brat exposes module-level metadata.
package brat

const Version = "0.1.0"
