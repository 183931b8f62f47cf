package prediction

// Location is a named point on the city map.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// LocationTraffic is the map payload for one location.
type LocationTraffic struct {
	Location
	Result
}

// DefaultLocations are the monitored points of the city map (Almaty).
var DefaultLocations = []Location{
	{Name: "Abay Avenue", Lat: 43.2406, Lng: 76.9286},
	{Name: "Al-Farabi Avenue", Lat: 43.2180, Lng: 76.9270},
	{Name: "Dostyk Avenue", Lat: 43.2335, Lng: 76.9571},
	{Name: "Tole Bi Street", Lat: 43.2546, Lng: 76.9141},
	{Name: "Raiymbek Avenue", Lat: 43.2714, Lng: 76.9340},
	{Name: "Sain Street", Lat: 43.2281, Lng: 76.8505},
	{Name: "Almaty-2 Station", Lat: 43.2606, Lng: 76.9413},
	{Name: "Sayakhat Bus Terminal", Lat: 43.2798, Lng: 76.9503},
}
