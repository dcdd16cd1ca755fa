/*
Package ports defines the driven ports (interfaces) of the chazz conversion pipeline.

These interfaces decouple the batch converter from concrete storage, allowing the
same pipeline to read from a directory or memory and to write to files, Redis or memory.

# Key Interfaces

  - DocumentLoader: Lists and decodes input documents (e.g., JSON files in a directory).
  - OutputSink: Persists transformed text under a document name.
  - ReadableSink: A sink that can also read back and list what it stored.
  - Watchable: Loaders that can notify about changed documents (watch mode).
*/
package ports
