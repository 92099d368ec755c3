package models

// Group is a named set of users sharing the group's permissions.
type Group struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Permission is a named capability granted to groups.
type Permission struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
