/*
Package convert drives batch conversion: it loads documents, selects one field,
rewrites it with the markup engine, formats the result and hands it to a sink.

Documents are processed on a bounded worker pool. A failure in one document is
recorded in the Report and never prevents the others from being converted.
*/
package convert
