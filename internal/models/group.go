package models

// Member roles within a group.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// GroupMember is one entry in a group's embedded member list.
type GroupMember struct {
	// UserID identifies the member.
	UserID string

	// Role is "admin" or "member". The creator is always an admin.
	Role string

	// JoinedAt is the Unix timestamp when the member joined.
	JoinedAt int64
}

// Group represents a named set of members that share group expenses.
// The member list has unique UserID entries; members are never removed.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Description is an optional free-form description.
	Description string

	// CreatedBy is the user ID of the creator.
	CreatedBy string

	// Members is the ordered member list.
	Members []GroupMember

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member returns the member entry for userID, or nil if not a member.
func (g *Group) Member(userID string) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// IsMember reports whether userID is in the group's member list.
func (g *Group) IsMember(userID string) bool {
	return g.Member(userID) != nil
}

// MemberIDs returns the member user IDs in list order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}
