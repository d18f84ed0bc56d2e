package service

import (
	"context"
	"math"
	"strings"

	"github.com/mmcloughlin/geohash"
	"github.com/sirupsen/logrus"

	"food-truck-api/analytics"
	"food-truck-api/apperrors"
	"food-truck-api/models"
	"food-truck-api/store"
)

// GeohashPrecision is the cell size stored on every truck (about 1.2km x 0.6km).
const GeohashPrecision = 6

const (
	DefaultNearbyRadiusKm = 5.0
	MaxNearbyRadiusKm     = 50.0
)

type TruckInput struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Cuisines      []string `json:"cuisines" validate:"required,min=1,dive,required"`
	Description   string   `json:"description" validate:"max=1000"`
	LicenseNumber string   `json:"license_number" validate:"max=50"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

// TruckUpdate lists the editable details; nil fields stay unchanged.
type TruckUpdate struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Cuisines      []string `json:"cuisines" validate:"omitempty,min=1,dive,required"`
	Description   *string  `json:"description" validate:"omitempty,max=1000"`
	LicenseNumber *string  `json:"license_number" validate:"omitempty,max=50"`
}

type TruckService struct {
	store *store.Store
	log   *logrus.Logger
}

func NewTruckService(st *store.Store, log *logrus.Logger) *TruckService {
	return &TruckService{store: st, log: log}
}

func (s *TruckService) Create(ctx context.Context, driverID string, in TruckInput) (*models.Truck, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, apperrors.Validation("location", "latitude and longitude go together")
	}

	truck := &models.Truck{
		DriverID:      driverID,
		Name:          strings.TrimSpace(in.Name),
		Cuisines:      trimAll(in.Cuisines),
		Description:   in.Description,
		LicenseNumber: in.LicenseNumber,
	}
	if in.Latitude != nil {
		truck.Latitude, truck.Longitude = *in.Latitude, *in.Longitude
		truck.Geohash = geohash.EncodeWithPrecision(truck.Latitude, truck.Longitude, GeohashPrecision)
	}
	if err := s.store.CreateTruck(ctx, truck); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"truck_id": truck.ID, "driver_id": driverID}).Info("truck created")
	return truck, nil
}

func (s *TruckService) Get(ctx context.Context, truckID string) (*analytics.RatedTruck, error) {
	truck, err := s.store.GetTruck(ctx, truckID)
	if err != nil {
		return nil, err
	}
	rated, err := s.rate(ctx, []models.Truck{*truck})
	if err != nil {
		return nil, err
	}
	return &rated[0], nil
}

// List returns all trucks with ratings, narrowed by the filter.
func (s *TruckService) List(ctx context.Context, f analytics.TruckFilter) ([]analytics.RatedTruck, error) {
	trucks, err := s.store.ListTrucks(ctx, "")
	if err != nil {
		return nil, err
	}
	rated, err := s.rate(ctx, trucks)
	if err != nil {
		return nil, err
	}
	return analytics.FilterTrucks(rated, f), nil
}

func (s *TruckService) ListByDriver(ctx context.Context, driverID string) ([]analytics.RatedTruck, error) {
	trucks, err := s.store.ListTrucks(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return s.rate(ctx, trucks)
}

// Nearby finds trucks within radiusKm of the point, nearest first. Candidates
// come from the point's geohash cell and its eight neighbours at a precision
// wide enough to cover the radius.
func (s *TruckService) Nearby(ctx context.Context, lat, lon, radiusKm float64, f analytics.TruckFilter) ([]analytics.RatedTruck, error) {
	if lat < -90 || lat > 90 {
		return nil, apperrors.Validation("lat", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return nil, apperrors.Validation("lon", "must be between -180 and 180")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm > MaxNearbyRadiusKm {
		return nil, apperrors.Validation("radius_km", "must be at most 50")
	}

	cell := geohash.EncodeWithPrecision(lat, lon, cellPrecision(lat, radiusKm))
	cells := append([]string{cell}, geohash.Neighbors(cell)...)

	trucks, err := s.store.ListTrucksInCells(ctx, cells)
	if err != nil {
		return nil, err
	}
	rated, err := s.rate(ctx, trucks)
	if err != nil {
		return nil, err
	}
	rated = analytics.FilterTrucks(rated, f)
	return analytics.WithinRadius(rated, analytics.GeoPoint{Latitude: lat, Longitude: lon}, radiusKm), nil
}

// kmPerDegree is the length of one degree of latitude, and of longitude at
// the equator.
const kmPerDegree = 111.32

// cellPrecision picks the longest geohash whose cell around lat is at least
// radiusKm tall and wide, so the 3x3 block around the origin covers the search
// circle. Width is measured at the cell edge nearest the pole plus the radius,
// where meridians are closest together.
func cellPrecision(lat, radiusKm float64) uint {
	for p := uint(GeohashPrecision); p > 1; p-- {
		box := geohash.BoundingBox(geohash.EncodeWithPrecision(lat, 0, p))
		edge := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat)) + radiusKm/kmPerDegree
		if edge >= 90 {
			continue
		}
		height := (box.MaxLat - box.MinLat) * kmPerDegree
		width := (box.MaxLng - box.MinLng) * kmPerDegree * math.Cos(edge*math.Pi/180)
		if math.Min(height, width) >= radiusKm {
			return p
		}
	}
	return 1
}

func (s *TruckService) Update(ctx context.Context, driverID, truckID string, in TruckUpdate) (*models.Truck, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	truck, err := ownedTruck(ctx, s.store, truckID, driverID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Cuisines != nil {
		if err := s.store.SetTruckCuisines(ctx, truck.ID, trimAll(in.Cuisines)); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.LicenseNumber != nil {
		updates["license_number"] = *in.LicenseNumber
	}
	if len(updates) == 0 {
		return s.store.GetTruck(ctx, truckID)
	}
	return s.store.UpdateTruck(ctx, truckID, updates)
}

func (s *TruckService) SetAvailability(ctx context.Context, driverID, truckID string, available bool) (*models.Truck, error) {
	if _, err := ownedTruck(ctx, s.store, truckID, driverID); err != nil {
		return nil, err
	}
	truck, err := s.store.UpdateTruck(ctx, truckID, map[string]interface{}{"available": available})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"truck_id": truckID, "available": available}).Info("truck availability changed")
	return truck, nil
}

func (s *TruckService) UpdateLocation(ctx context.Context, driverID, truckID string, lat, lon float64) (*models.Truck, error) {
	if lat < -90 || lat > 90 {
		return nil, apperrors.Validation("latitude", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return nil, apperrors.Validation("longitude", "must be between -180 and 180")
	}
	if _, err := ownedTruck(ctx, s.store, truckID, driverID); err != nil {
		return nil, err
	}
	return s.store.UpdateTruck(ctx, truckID, map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
		"geohash":   geohash.EncodeWithPrecision(lat, lon, GeohashPrecision),
	})
}

func (s *TruckService) Delete(ctx context.Context, driverID, truckID string) error {
	if _, err := ownedTruck(ctx, s.store, truckID, driverID); err != nil {
		return err
	}
	if err := s.store.DeleteTruck(ctx, truckID); err != nil {
		return err
	}
	s.log.WithField("truck_id", truckID).Info("truck deleted")
	return nil
}

// rate attaches the review average and count to each truck.
func (s *TruckService) rate(ctx context.Context, trucks []models.Truck) ([]analytics.RatedTruck, error) {
	ids := make([]string, len(trucks))
	for i, t := range trucks {
		ids[i] = t.ID
	}
	reviews, err := s.store.ListReviewsByTrucks(ctx, ids)
	if err != nil {
		return nil, err
	}
	byTruck := make(map[string][]models.Review, len(trucks))
	for _, r := range reviews {
		byTruck[r.TruckID] = append(byTruck[r.TruckID], r)
	}

	out := make([]analytics.RatedTruck, len(trucks))
	for i, t := range trucks {
		avg, n := analytics.AverageRating(byTruck[t.ID])
		out[i] = analytics.RatedTruck{Truck: t, Rating: avg, RatingCount: n}
	}
	return out, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
