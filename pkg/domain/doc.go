/*
Package domain contains the core models shared by the chazz conversion pipeline.

It defines the documents flowing from a loader to a sink, the per-document
outcomes of a batch run and the error values used across adapters. This package
is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Document: A decoded input document and the name it is stored under.
  - DocumentEvent: An observability record emitted for each converted document.
  - DocumentError: A per-document failure that never aborts a batch.
*/
package domain
