package entity

import "github.com/google/uuid"

type Hospital struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	City     string    `json:"city"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

// DefaultHospitals is the reference list loaded by the seeder.
var DefaultHospitals = []Hospital{
	{Name: "Korle Bu Teaching Hospital", Location: "Korle Bu, Accra", City: "Accra"},
	{Name: "37 Military Hospital", Location: "Burma Camp, Accra", City: "Accra"},
	{Name: "Ridge Hospital", Location: "Ridge, Accra", City: "Accra"},
	{Name: "Komfo Anokye Teaching Hospital", Location: "Bantama, Kumasi", City: "Kumasi"},
	{Name: "Tema General Hospital", Location: "Community 2, Tema", City: "Tema"},
	{Name: "Lekma Hospital", Location: "Teshie, Accra", City: "Accra"},
	{Name: "Greater Accra Regional Hospital", Location: "Ridge, Accra", City: "Accra"},
	{Name: "Nyaho Medical Centre", Location: "Airport Residential Area, Accra", City: "Accra"},
}
