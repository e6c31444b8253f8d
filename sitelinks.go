// Package sitelinks discovers the foreign sites a web page links to.
// It loads a page, collects the hrefs of its anchor elements and reduces
// them to the distinct root URLs of sites unrelated to the page's own host.
//
// This package contains domain types, interfaces and the pure link filter
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/, sqlite/,
// excelize/).
package sitelinks
