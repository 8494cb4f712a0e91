// Package cli implements the interactive motordesk admin shell: login to the
// back office, stage and reorder vehicle images, drive the batch uploader,
// and save listings.
package cli
