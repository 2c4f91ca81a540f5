// Package flatten projects a parsed metadata document into one fixed-schema
// row.
//
// The schema never varies with the input: absent fields become nulls (nil
// pointers), keeping "unknown" distinguishable from a measured zero.
// Classification columns come from the first annotation in document order
// that carries a classification block; files with several classified
// annotations are additionally reported through AnnotationDetail records so
// the flat projection drops nothing.
package flatten
