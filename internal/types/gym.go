package types

// Gym is one entry of the static gyms dataset. Region is the state code
// (UF) used to match a student's postal code.
type Gym struct {
	Region       string `json:"UF"`
	Name         string `json:"nome"`
	Address      string `json:"endereco,omitempty"`
	Neighborhood string `json:"bairro,omitempty"`
	City         string `json:"cidade,omitempty"`
	PostalCode   string `json:"cep,omitempty"`
	Phone        string `json:"telefone,omitempty"`
}

// GymDataset is the layout of the dataset file.
type GymDataset struct {
	Gyms []Gym `json:"academias"`
}
