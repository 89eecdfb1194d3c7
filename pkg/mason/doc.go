// Package mason provides types, interfaces, and helpers for working with a
// Mason hypermedia API such as the nearby events API.
//
// # Overview
//
// A Mason response body is a JSON object carrying domain fields next to
// reserved properties: "@controls" maps a control name to a hypermedia
// control (href, method, optional JSON schema), "@error" carries a failure
// description and "items" embeds an ordered list of sub-representations.
// Representation is a read-only view over such a body; Control is a single
// server-declared affordance.
//
//	rep, err := mason.Parse(body)
//	if err != nil { /* handle error */ }
//
//	if next, ok := rep.Control(mason.ControlNext); ok {
//	  // another page is available at next.Href
//	}
//
//	for _, item := range rep.Items() {
//	  area, _ := mason.DecodeArea(item)
//	  _ = area.Name
//	}
//
// Absent controls are an expected condition (there is no "prev" on the
// first page) and are reported through the boolean result, never as errors.
//
// # Transport
//
// Transport is the single-call contract used by the navigator:
//
//	res, err := transport.Fetch(ctx, ctl.Href, ctl.Method, payload)
//
// A concrete implementation is provided by the masonclient package.
//
// # Errors
//
// Failed requests are reported as *APIError carrying the "@error.@message"
// text of the response. Helpers such as IsNotFound and IsConflict make it
// easy to branch on common cases, and ErrorMessage extracts the text that
// should be shown to a user for any error.
package mason
