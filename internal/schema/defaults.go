package schema

// Default SCIM schema definitions for the core User resource type and the
// Enterprise User extension, per RFC 7643 §4.1 and §4.3. These are the
// attribute sets exercised by this repository's examples and tests; a real
// deployment would instead build a Registry from a loaded schema document
// (out of scope here, see spec §1) but would hand the loader the exact same
// AttributeDef shape this function builds by hand.

const (
	// UserSchemaURI is the core User resource schema.
	UserSchemaURI = "urn:ietf:params:scim:schemas:core:2.0:User"
	// EnterpriseUserSchemaURI is the Enterprise User extension schema.
	EnterpriseUserSchemaURI = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"
	// GroupSchemaURI is the core Group resource schema.
	GroupSchemaURI = "urn:ietf:params:scim:schemas:core:2.0:Group"
)

// LoadDefaultUserRegistry builds a Registry for the core User resource type
// with the Enterprise User extension registered.
func LoadDefaultUserRegistry() *Registry {
	reg := NewRegistry(userResourceType())
	reg.RegisterExtension(enterpriseUserResourceType())
	return reg
}

func userResourceType() *ResourceType {
	name := func(n string, caseExact bool) *AttributeDef {
		a := NewAttributeDef(UserSchemaURI, n, String)
		a.CaseExact = caseExact
		return a
	}

	emails := NewComplexAttributeDef(UserSchemaURI, "emails", true,
		NewAttributeDef(UserSchemaURI, "value", String),
		name("type", false),
		boolAttr("primary"),
		name("display", false),
	)
	addresses := NewComplexAttributeDef(UserSchemaURI, "addresses", true,
		name("formatted", false),
		name("streetAddress", false),
		name("locality", false),
		name("region", false),
		name("postalCode", false),
		name("country", false),
		name("type", false),
		boolAttr("primary"),
	)
	phoneNumbers := NewComplexAttributeDef(UserSchemaURI, "phoneNumbers", true,
		NewAttributeDef(UserSchemaURI, "value", String),
		name("type", false),
		boolAttr("primary"),
	)
	groupsAttr := NewComplexAttributeDef(UserSchemaURI, "groups", true,
		NewAttributeDef(UserSchemaURI, "value", String),
		NewAttributeDef(UserSchemaURI, "$ref", Reference),
		name("display", false),
		name("type", false),
	)
	nameAttr := NewComplexAttributeDef(UserSchemaURI, "name", false,
		name("formatted", false),
		name("familyName", false),
		name("givenName", false),
		name("middleName", false),
		name("honorificPrefix", false),
		name("honorificSuffix", false),
	)

	userName := NewAttributeDef(UserSchemaURI, "userName", String)
	userName.Required = true
	userName.Uniqueness = UniquenessServer

	active := boolAttr("active")

	id := NewAttributeDef("", "id", String)
	id.Mutability = ReadOnly
	id.Returned = ReturnedAlways
	id.Uniqueness = UniquenessGlobal

	externalID := NewAttributeDef("", "externalId", String)

	meta := NewComplexAttributeDef("", "meta", false,
		readOnlyAttr(NewAttributeDef("", "resourceType", String)),
		readOnlyAttr(NewAttributeDef("", "created", DateTime)),
		readOnlyAttr(NewAttributeDef("", "lastModified", DateTime)),
		readOnlyAttr(NewAttributeDef("", "location", Reference)),
		readOnlyAttr(NewAttributeDef("", "version", String)),
	)

	return &ResourceType{
		Name:      "User",
		SchemaURI: UserSchemaURI,
		Attrs: []*AttributeDef{
			id,
			externalID,
			meta,
			userName,
			nameAttr,
			name("displayName", false),
			name("nickName", false),
			NewAttributeDef(UserSchemaURI, "profileUrl", Reference),
			name("title", false),
			name("userType", false),
			name("preferredLanguage", false),
			name("locale", false),
			name("timezone", false),
			active,
			NewAttributeDef(UserSchemaURI, "password", String),
			emails,
			phoneNumbers,
			addresses,
			groupsAttr,
		},
	}
}

func enterpriseUserResourceType() *ResourceType {
	name := func(n string) *AttributeDef { return NewAttributeDef(EnterpriseUserSchemaURI, n, String) }

	manager := NewComplexAttributeDef(EnterpriseUserSchemaURI, "manager", false,
		NewAttributeDef(EnterpriseUserSchemaURI, "value", String),
		NewAttributeDef(EnterpriseUserSchemaURI, "$ref", Reference),
		readOnlyAttr(NewAttributeDef(EnterpriseUserSchemaURI, "displayName", String)),
	)

	return &ResourceType{
		Name:      "EnterpriseUser",
		SchemaURI: EnterpriseUserSchemaURI,
		Attrs: []*AttributeDef{
			name("employeeNumber"),
			name("costCenter"),
			name("organization"),
			name("division"),
			name("department"),
			manager,
		},
	}
}

func boolAttr(name string) *AttributeDef {
	return NewAttributeDef(UserSchemaURI, name, Boolean)
}

func readOnlyAttr(a *AttributeDef) *AttributeDef {
	a.Mutability = ReadOnly
	return a
}
