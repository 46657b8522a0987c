// Package storage abstracts the S3-compatible bucket holding source and
// optimized media, and defines the user-metadata schema stamped on processed
// objects.
package storage
