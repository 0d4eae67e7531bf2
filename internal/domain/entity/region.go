package entity

// Region groups currencies for display
type Region string

const (
	RegionAfrica       Region = "Africa"
	RegionAsia         Region = "Asia"
	RegionEurope       Region = "Europe"
	RegionNorthAmerica Region = "NorthAmerica"
	RegionOceania      Region = "Oceania"
	RegionSouthAmerica Region = "SouthAmerica"
)

// Regions lists every region in canonical order
func Regions() []Region {
	return []Region{
		RegionAfrica,
		RegionAsia,
		RegionEurope,
		RegionNorthAmerica,
		RegionOceania,
		RegionSouthAmerica,
	}
}
