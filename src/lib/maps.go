package lib

import (
	"awm/src/config"
	"context"
	"log"

	"googlemaps.github.io/maps"
)

var mapsClient *maps.Client

func GetMapsClient() (*maps.Client, error) {
	if mapsClient != nil {
		return mapsClient, nil
	}
	cli, err := maps.NewClient(maps.WithAPIKey(config.GAPI_API_KEY))
	if err != nil {
		return nil, err
	}
	mapsClient = cli
	return cli, nil
}

// GeocodeAddress resolves a billboard location string into coordinates.
// Returns nil without error when no result matches.
func GeocodeAddress(ctx context.Context, address string) (*maps.LatLng, error) {
	cli, err := GetMapsClient()
	if err != nil {
		return nil, err
	}
	results, err := cli.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		log.Printf("[maps] Error geocoding address: %s\n", err.Error())
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	loc := results[0].Geometry.Location
	return &loc, nil
}
