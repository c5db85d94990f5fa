package dto

type ListArchivedQuery struct {
	Entity string `query:"entity"`
}

// ArchivedGroup is one entity's archived rows.
type ArchivedGroup struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
	Items  any    `json:"items"`
}
