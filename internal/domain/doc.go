// Package domain contains the core dialogue types and their validation
// rules, independent of any model API or storage format.
package domain
