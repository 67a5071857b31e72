package dataverse

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ODataResponse is the collection envelope returned by list endpoints.
type ODataResponse[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink,omitempty"`
	Count    *int64 `json:"@odata.count,omitempty"`
}

// LabelValue is one localized label.
type LabelValue struct {
	Label        string `json:"Label"`
	LanguageCode int    `json:"LanguageCode"`
}

// LocalizedLabel is the Dataverse label structure.
type LocalizedLabel struct {
	LocalizedLabels    []LabelValue `json:"LocalizedLabels,omitempty"`
	UserLocalizedLabel *LabelValue  `json:"UserLocalizedLabel,omitempty"`
}

// Text returns the user's localized label, or "".
func (l *LocalizedLabel) Text() string {
	if l == nil || l.UserLocalizedLabel == nil {
		return ""
	}
	return l.UserLocalizedLabel.Label
}

// EntityMetadata is a row of EntityDefinitions.
type EntityMetadata struct {
	MetadataID           string          `json:"MetadataId"`
	LogicalName          string          `json:"LogicalName"`
	SchemaName           string          `json:"SchemaName,omitempty"`
	DisplayName          *LocalizedLabel `json:"DisplayName,omitempty"`
	Description          *LocalizedLabel `json:"Description,omitempty"`
	PrimaryIDAttribute   string          `json:"PrimaryIdAttribute,omitempty"`
	PrimaryNameAttribute string          `json:"PrimaryNameAttribute,omitempty"`
	EntitySetName        string          `json:"EntitySetName,omitempty"`
	IsCustomEntity       *bool           `json:"IsCustomEntity,omitempty"`
	IsManaged            *bool           `json:"IsManaged,omitempty"`
	ObjectTypeCode       *int            `json:"ObjectTypeCode,omitempty"`
}

// Label returns the display name or falls back to the logical name.
func (e EntityMetadata) Label() string {
	if s := e.DisplayName.Text(); s != "" {
		return s
	}
	return e.LogicalName
}

// AttributeMetadata is a column of an entity.
type AttributeMetadata struct {
	MetadataID        string          `json:"MetadataId"`
	LogicalName       string          `json:"LogicalName"`
	SchemaName        string          `json:"SchemaName,omitempty"`
	DisplayName       *LocalizedLabel `json:"DisplayName,omitempty"`
	Description       *LocalizedLabel `json:"Description,omitempty"`
	AttributeType     string          `json:"AttributeType,omitempty"`
	AttributeTypeName *struct {
		Value string `json:"Value"`
	} `json:"AttributeTypeName,omitempty"`
	RequiredLevel *struct {
		Value string `json:"Value"`
	} `json:"RequiredLevel,omitempty"`
	IsCustomAttribute *bool    `json:"IsCustomAttribute,omitempty"`
	IsPrimaryID       *bool    `json:"IsPrimaryId,omitempty"`
	IsPrimaryName     *bool    `json:"IsPrimaryName,omitempty"`
	MaxLength         *int     `json:"MaxLength,omitempty"`
	MinValue          *float64 `json:"MinValue,omitempty"`
	MaxValue          *float64 `json:"MaxValue,omitempty"`
}

// Label returns the display name or falls back to the logical name.
func (a AttributeMetadata) Label() string {
	if s := a.DisplayName.Text(); s != "" {
		return s
	}
	return a.LogicalName
}

// TypeName returns the attribute type name.
func (a AttributeMetadata) TypeName() string {
	if a.AttributeTypeName != nil && a.AttributeTypeName.Value != "" {
		return a.AttributeTypeName.Value
	}
	if a.AttributeType != "" {
		return a.AttributeType
	}
	return "Unknown"
}

// Required reports whether the attribute must have a value.
func (a AttributeMetadata) Required() bool {
	if a.RequiredLevel == nil {
		return false
	}
	return a.RequiredLevel.Value == "ApplicationRequired" || a.RequiredLevel.Value == "SystemRequired"
}

// RelationshipKind selects which relationship collection to list.
type RelationshipKind string

const (
	OneToMany  RelationshipKind = "OneToManyRelationships"
	ManyToOne  RelationshipKind = "ManyToOneRelationships"
	ManyToMany RelationshipKind = "ManyToManyRelationships"
)

// RelationshipMetadata covers 1:N, N:1 and N:N relationships.
type RelationshipMetadata struct {
	SchemaName           string           `json:"SchemaName"`
	ReferencingEntity    string           `json:"ReferencingEntity,omitempty"`
	ReferencingAttribute string           `json:"ReferencingAttribute,omitempty"`
	ReferencedEntity     string           `json:"ReferencedEntity,omitempty"`
	ReferencedAttribute  string           `json:"ReferencedAttribute,omitempty"`
	Entity1LogicalName   string           `json:"Entity1LogicalName,omitempty"`
	Entity2LogicalName   string           `json:"Entity2LogicalName,omitempty"`
	IntersectEntityName  string           `json:"IntersectEntityName,omitempty"`
	Kind                 RelationshipKind `json:"-"`
}

// RelatedEntity returns the entity on the other side of the relationship.
func (r RelationshipMetadata) RelatedEntity(from string) string {
	for _, name := range []string{r.ReferencedEntity, r.ReferencingEntity, r.Entity1LogicalName, r.Entity2LogicalName} {
		if name != "" && name != from {
			return name
		}
	}
	return ""
}

const (
	entitySelect    = "LogicalName,DisplayName,SchemaName,Description,PrimaryIdAttribute,PrimaryNameAttribute,EntitySetName,IsCustomEntity,IsManaged,ObjectTypeCode"
	attributeSelect = "LogicalName,DisplayName,SchemaName,AttributeType,AttributeTypeName,RequiredLevel,IsCustomAttribute,IsPrimaryId,IsPrimaryName,Description"
)

var relationshipSelect = map[RelationshipKind]string{
	OneToMany:  "SchemaName,ReferencingEntity,ReferencingAttribute,ReferencedEntity,ReferencedAttribute",
	ManyToOne:  "SchemaName,ReferencingEntity,ReferencingAttribute,ReferencedEntity,ReferencedAttribute",
	ManyToMany: "SchemaName,Entity1LogicalName,Entity2LogicalName,IntersectEntityName",
}

// Entities lists every entity definition.
func (c *Client) Entities(ctx context.Context) ([]EntityMetadata, error) {
	var resp ODataResponse[EntityMetadata]
	if err := c.getJSON(ctx, "EntityDefinitions?$select="+entitySelect, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Entity fetches one entity definition by logical name.
func (c *Client) Entity(ctx context.Context, logicalName string) (EntityMetadata, error) {
	var e EntityMetadata
	endpoint := fmt.Sprintf("EntityDefinitions(LogicalName='%s')?$select=%s", logicalName, entitySelect)
	err := c.getJSON(ctx, endpoint, &e)
	return e, err
}

// Attributes lists the attributes of an entity.
func (c *Client) Attributes(ctx context.Context, logicalName string) ([]AttributeMetadata, error) {
	var resp ODataResponse[AttributeMetadata]
	endpoint := fmt.Sprintf("EntityDefinitions(LogicalName='%s')/Attributes?$select=%s", logicalName, attributeSelect)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Relationships lists one kind of relationship for an entity.
func (c *Client) Relationships(ctx context.Context, logicalName string, kind RelationshipKind) ([]RelationshipMetadata, error) {
	sel, ok := relationshipSelect[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relationship kind: %s", kind)
	}
	var resp ODataResponse[RelationshipMetadata]
	endpoint := fmt.Sprintf("EntityDefinitions(LogicalName='%s')/%s?$select=%s", logicalName, kind, sel)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Value {
		resp.Value[i].Kind = kind
	}
	return resp.Value, nil
}

// AllRelationships lists 1:N, N:1 and N:N relationships in that order.
func (c *Client) AllRelationships(ctx context.Context, logicalName string) ([]RelationshipMetadata, error) {
	var all []RelationshipMetadata
	for _, kind := range []RelationshipKind{OneToMany, ManyToOne, ManyToMany} {
		rels, err := c.Relationships(ctx, logicalName, kind)
		if err != nil {
			return nil, err
		}
		all = append(all, rels...)
	}
	return all, nil
}

// AttributeCount counts records of entitySet where attr is not null.
func (c *Client) AttributeCount(ctx context.Context, entitySet, attr string) (int64, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/$count?$filter=%s ne null", entitySet, attr))
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(string(body), "\ufeff")), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse count response: %w", err)
	}
	return n, nil
}
