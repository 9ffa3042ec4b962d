// Package schema resolves SCIM attribute names, as defined by RFC 7643,
// to AttributeDef records.
//
// # Overview
//
// A Registry is built once from a ResourceType (the primary resource's
// attributes) plus any registered extension schemas, and is read-only
// from then on:
//
//	reg := schema.LoadDefaultUserRegistry()
//
//	def, err := reg.Resolve("emails.value")
//	def, err = reg.Resolve("urn:ietf:params:scim:schemas:extension:enterprise:2.0:User:department")
//
// # Attribute Definitions
//
// An AttributeDef carries the type, multiplicity, and mutability a patch
// or filter needs to interpret a value correctly:
//
//	def := schema.NewAttributeDef(schema.UserSchemaURI, "userName", schema.String)
//	def.Required = true
//	def.Uniqueness = schema.UniquenessServer
//
// Complex attributes own an ordered list of sub-attributes and never
// carry a value themselves:
//
//	emails := schema.NewComplexAttributeDef(schema.UserSchemaURI, "emails", true,
//	    schema.NewAttributeDef(schema.UserSchemaURI, "value", schema.String),
//	    schema.NewAttributeDef(schema.UserSchemaURI, "type", schema.String),
//	)
//
// # Lookup Rules
//
// Resolve accepts a fully qualified "schemaUri:name[.sub]" form, a bare
// dotted short form resolved against the registry's primary resource
// type, or an extension-prefixed form. The URI segment is matched
// case-sensitively; the attribute name and any sub-attribute segments are
// matched case-insensitively.
package schema
