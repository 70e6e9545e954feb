package model

import "time"

// RelationType discriminates rows in the relationships table.
type RelationType int16

const (
	RelationFriend RelationType = 0
	RelationBlock  RelationType = 1
)

// Relationship is a directed user→user relation.
// A pair (UserID, TargetID) exists at most once.
type Relationship struct {
	UserID   int32
	TargetID int32
	Relation RelationType
	Since    time.Time
}
