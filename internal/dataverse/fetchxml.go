package dataverse

import (
	"context"
	"log"

	"github.com/nhath/ezdv/internal/query"
)

// FetchResult is the outcome of a FetchXML execution.
type FetchResult struct {
	EntityName    string
	EntitySetName string
	Guessed       bool
	Body          []byte
}

// ExecuteFetchXML submits fetchXML against the entity set of its root entity.
// The entity name is scraped from the document and resolved through sets; a
// nil resolver always uses the pluralization fallback.
func (c *Client) ExecuteFetchXML(ctx context.Context, fetchXML string, sets EntitySetResolver) (FetchResult, error) {
	name, err := query.ExtractFetchEntityName(fetchXML)
	if err != nil {
		return FetchResult{}, err
	}

	var set string
	authoritative := false
	if sets != nil {
		set, authoritative = sets.EntitySetName(name)
	} else {
		set, authoritative = query.ResolveEntitySetName(name, "")
	}
	if !authoritative {
		log.Printf("fetchxml: entity set for %q guessed as %q", name, set)
	}

	// FetchXMLQueryString is already encoded, so it goes out as an absolute URL
	body, err := c.Execute(ctx, c.APIURL()+"/"+query.FetchXMLQueryString(set, fetchXML))
	if err != nil {
		return FetchResult{}, err
	}
	return FetchResult{EntityName: name, EntitySetName: set, Guessed: !authoritative, Body: body}, nil
}
