// Package docprimer crawls a documentation site into a corpus of text
// documents, normalizes that corpus for indexing, and augments answers with
// live search results when the knowledge base has nothing to say.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/, gemini/).
package docprimer
