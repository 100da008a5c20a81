// Package printing contains the value objects shared by invoice layout,
// image loading and document storage: paper geometry, embeddable images and
// finished documents.
package printing
