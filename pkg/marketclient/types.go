package marketclient

import (
	"github.com/localnerve/campus-market/internal/pipeline"
	"github.com/localnerve/campus-market/internal/types"
)

// Item is a listing as decoded from the API. Malformed prices, view counts
// and timestamps decode as invalid values rather than failing the response.
type Item = pipeline.Item

// Options selects and orders items in a Catalog.
type Options = pipeline.Options

// FlexFloat is a number that tolerates malformed JSON input.
type FlexFloat = types.FlexFloat

// FlexTime is a timestamp that tolerates malformed JSON input.
type FlexTime = types.FlexTime
