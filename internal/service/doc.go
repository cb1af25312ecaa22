// Package service orchestrates the pipeline stages behind each CLI command:
// resolving books, extracting page ranges, generating cards or exercises,
// and writing the exported artifacts.
package service
