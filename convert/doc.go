// Package convert holds the type-conversion engine used to turn Go values
// into SQL literals and to move values between Go types.
//
// A Registry maps (source, destination) type pairs to converters. Lookups
// that miss fall back to the interfaces the source type implements, in
// registration order, and then to its supertype: the pointed-to type of a
// pointer, the predeclared type under a defined basic type, or a supertype
// declared with DeclareSupertype. Whatever is found is memoized so the
// next lookup for the same pair is direct.
//
// Base returns the shared root registry. Dialects layer their own registry
// over it and install a LiteralStyle that decides how booleans, strings,
// binary values and timestamps are spelled:
//
//	r := convert.NewRegistry(convert.Base())
//	style := convert.DefaultStyle
//	style.Escape = convert.EscapeBackslash
//	style.Install(r)
//	lit, err := r.Literal("it's")  // 'it''s'
package convert
