// Package batch drives a sequence of generation tasks through the
// resilient generation loop and persists the collected records.
package batch
