package trip

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

type MemberStatus string

const (
	StatusInvited  MemberStatus = "invited"
	StatusAccepted MemberStatus = "accepted"
)

type Member struct {
	UserId int
	Role   Role
	Status MemberStatus
}

type Trip struct {
	Id          string
	Name        string
	Destination string
	StartDate   string // ISO 8601 calendar date
	EndDate     string
	OwnerId     int
	Members     []Member
}
