package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Vehicle is the subset of the vehicle resource the simulator creates.
type Vehicle struct {
	ID                 string `json:"id,omitempty"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	RegistrationNumber string `json:"registration_number"`
	Site               string `json:"site"`
	Status             string `json:"status"`
}

// Refueling is a fill-up posted to /refuelings.
type Refueling struct {
	VehicleID     string    `json:"vehicle_id"`
	RefuelingDate time.Time `json:"refueling_date"`
	Odometer      float64   `json:"odometer"`
	FuelAmount    float64   `json:"fuel_amount"`
	FuelCost      float64   `json:"fuel_cost"`
	FuelType      string    `json:"fuel_type"`
	StationName   string    `json:"station_name"`
}

// Usage is a trip posted to /usages.
type Usage struct {
	VehicleID     string    `json:"vehicle_id"`
	UsageDate     time.Time `json:"usage_date"`
	StartOdometer float64   `json:"start_odometer"`
	EndOdometer   float64   `json:"end_odometer"`
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	Purpose       string    `json:"purpose"`
	DriverName    string    `json:"driver_name"`
	FuelConsumed  float64   `json:"fuel_consumed"`
}

// profile holds the operating envelope of a machine type.
type profile struct {
	TankLiters   float64
	KmPerLiter   float64
	TripKmMin    float64
	TripKmMax    float64
	TripsPerDay  int
	PurposeNames []string
}

var profiles = map[string]profile{
	"truck":     {TankLiters: 300, KmPerLiter: 3.5, TripKmMin: 20, TripKmMax: 90, TripsPerDay: 3, PurposeNames: []string{"haul aggregate", "debris removal", "steel delivery"}},
	"mixer":     {TankLiters: 250, KmPerLiter: 2.8, TripKmMin: 15, TripKmMax: 60, TripsPerDay: 4, PurposeNames: []string{"concrete pour", "batching plant run"}},
	"excavator": {TankLiters: 400, KmPerLiter: 0.8, TripKmMin: 2, TripKmMax: 8, TripsPerDay: 2, PurposeNames: []string{"trenching", "foundation dig", "site grading"}},
	"loader":    {TankLiters: 200, KmPerLiter: 1.5, TripKmMin: 3, TripKmMax: 12, TripsPerDay: 3, PurposeNames: []string{"stockpile loading", "backfill"}},
}

var vehicleTypes = []string{"truck", "mixer", "excavator", "loader"}

var sites = []string{"Whitefield Tower B", "Ring Road Flyover", "Hebbal Metro Depot", "Electronic City Phase 3"}

var stations = []string{"HP Hosur Road", "Indian Oil Outer Ring", "Bharat Petroleum Yelahanka", "Site Bowser"}

var drivers = []string{"Ravi", "Suresh", "Anita", "Manjunath", "Imran", "Lakshmi"}

// VehicleState tracks the odometer and tank of one simulated machine.
type VehicleState struct {
	VehicleID string
	Type      string
	Site      string
	Odometer  float64
	FuelLevel float64 // liters in tank
}

// Simulator posts plausible logs for a fleet of site vehicles.
type Simulator struct {
	APIURL    string
	Token     string
	Client    *http.Client
	Rand      *rand.Rand
	BasePrice float64 // INR per liter
}

func NewSimulator(apiURL, token string, seed int64) *Simulator {
	return &Simulator{
		APIURL:    apiURL,
		Token:     token,
		Client:    &http.Client{Timeout: 10 * time.Second},
		Rand:      rand.New(rand.NewSource(seed)),
		BasePrice: 92,
	}
}

func (s *Simulator) post(path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", path, err)
	}
	req, err := http.NewRequest(http.MethodPost, s.APIURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s failed with status: %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (s *Simulator) Login(username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := s.post("/auth/login", map[string]string{"username": username, "password": password}, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("login returned no token")
	}
	s.Token = resp.Token
	return nil
}

func (s *Simulator) pick(options []string) string {
	return options[s.Rand.Intn(len(options))]
}

func (s *Simulator) between(lo, hi float64) float64 {
	return lo + s.Rand.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateVehicle registers a machine of vtype and returns its initial state.
func (s *Simulator) CreateVehicle(n int, vtype string) (*VehicleState, error) {
	vehicle := Vehicle{
		Name:               fmt.Sprintf("%s-%02d", vtype, n),
		Type:               vtype,
		RegistrationNumber: fmt.Sprintf("KA-%02d-%c%c-%04d", 1+s.Rand.Intn(60), 'A'+rune(s.Rand.Intn(26)), 'A'+rune(s.Rand.Intn(26)), s.Rand.Intn(10000)),
		Site:               s.pick(sites),
		Status:             "active",
	}
	var created Vehicle
	if err := s.post("/vehicles", vehicle, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("invalid vehicle ID in response")
	}

	p := profiles[vtype]
	log.WithFields(log.Fields{
		"vehicle_id": created.ID,
		"type":       vtype,
		"site":       vehicle.Site,
	}).Info("Created vehicle")

	return &VehicleState{
		VehicleID: created.ID,
		Type:      vtype,
		Site:      vehicle.Site,
		Odometer:  math.Round(s.between(1000, 40000)),
		FuelLevel: p.TankLiters * s.between(0.4, 1),
	}, nil
}

// NextTrip advances the state by one trip on day.
func (s *Simulator) NextTrip(st *VehicleState, day time.Time) Usage {
	p := profiles[st.Type]
	distance := round2(s.between(p.TripKmMin, p.TripKmMax))
	// efficiency varies +-20% with load and terrain
	fuel := round2(distance / (p.KmPerLiter * s.between(0.8, 1.2)))

	u := Usage{
		VehicleID:     st.VehicleID,
		UsageDate:     day,
		StartOdometer: st.Odometer,
		EndOdometer:   round2(st.Odometer + distance),
		StartLocation: st.Site,
		EndLocation:   s.pick(sites),
		Purpose:       s.pick(p.PurposeNames),
		DriverName:    s.pick(drivers),
		FuelConsumed:  fuel,
	}
	st.Odometer = u.EndOdometer
	st.FuelLevel -= fuel
	return u
}

// NeedsRefuel reports whether the tank is below a quarter.
func NeedsRefuel(st *VehicleState) bool {
	return st.FuelLevel < profiles[st.Type].TankLiters*0.25
}

// Refuel fills the tank on day.
func (s *Simulator) Refuel(st *VehicleState, day time.Time) Refueling {
	p := profiles[st.Type]
	amount := round2(p.TankLiters - math.Max(st.FuelLevel, 0))
	price := s.BasePrice + s.between(-4, 6)
	st.FuelLevel = p.TankLiters
	return Refueling{
		VehicleID:     st.VehicleID,
		RefuelingDate: day,
		Odometer:      st.Odometer,
		FuelAmount:    amount,
		FuelCost:      round2(amount * price),
		FuelType:      "Diesel",
		StationName:   s.pick(stations),
	}
}

// SimulateDay posts the trips and fill-ups of one vehicle for one day.
func (s *Simulator) SimulateDay(st *VehicleState, day time.Time) {
	trips := 1 + s.Rand.Intn(profiles[st.Type].TripsPerDay)
	for i := 0; i < trips; i++ {
		if NeedsRefuel(st) {
			r := s.Refuel(st, day)
			if err := s.post("/refuelings", r, nil); err != nil {
				log.WithError(err).WithField("vehicle_id", st.VehicleID).Error("Failed to post refueling")
			} else {
				log.WithFields(log.Fields{"vehicle_id": st.VehicleID, "liters": r.FuelAmount, "cost": r.FuelCost}).Info("Posted refueling")
			}
		}
		u := s.NextTrip(st, day)
		if err := s.post("/usages", u, nil); err != nil {
			log.WithError(err).WithField("vehicle_id", st.VehicleID).Error("Failed to post usage")
			continue
		}
		log.WithFields(log.Fields{"vehicle_id": st.VehicleID, "km": u.EndOdometer - u.StartOdometer}).Debug("Posted usage")
	}
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func main() {
	fleetSize := envInt("FLEET_SIZE", 6)
	days := envInt("SIM_DAYS", 60)
	apiURL := envString("API_BASE_URL", "http://localhost:8080/api")

	interval := 500 * time.Millisecond
	if n := envInt("SIM_TICK_MILLIS", 0); n >= 1 {
		interval = time.Duration(n) * time.Millisecond
	}

	sim := NewSimulator(apiURL, os.Getenv("SIM_AUTH_TOKEN"), time.Now().UnixNano())
	if sim.Token == "" {
		user := envString("SIM_USERNAME", "admin")
		if err := sim.Login(user, os.Getenv("SIM_PASSWORD")); err != nil {
			log.WithError(err).Fatal("Failed to log in. Set SIM_AUTH_TOKEN or SIM_USERNAME/SIM_PASSWORD")
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"days":       days,
		"api_url":    apiURL,
	}).Info("Starting site fleet simulation")

	states := make([]*VehicleState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		st, err := sim.CreateVehicle(i+1, vehicleTypes[i%len(vehicleTypes)])
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		states = append(states, st)
	}
	if len(states) == 0 {
		log.Error("No vehicles created. Ensure the token has manage_vehicles permission and the API is reachable.")
		return
	}

	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days)
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for _, st := range states {
			sim.SimulateDay(st, day)
		}
		log.WithField("day", day.Format("2006-01-02")).Info("Simulated day")
		<-tick.C
	}
	log.WithField("vehicles", len(states)).Info("Simulation complete")
}
