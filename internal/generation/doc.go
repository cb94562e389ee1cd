// Package generation defines the model-client boundary and the resilient
// generation loop that drives credential rotation, backoff, and parse
// retries for a single generation task.
package generation
