// Package testsupport holds fixtures shared by package tests: temp-rooted
// configs, placeholder model files, and a scripted process runner.
package testsupport
