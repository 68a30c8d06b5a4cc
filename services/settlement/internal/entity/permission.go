package entity

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleAgent    Role = "agent"
	RoleExternal Role = "external"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleAgent, RoleExternal:
		return true
	}
	return false
}

type Capability string

const (
	CapManageLottos   Capability = "manage_lottos"
	CapParticipate    Capability = "participate"
	CapCancelTicket   Capability = "cancel_ticket"
	CapSubmitPrizes   Capability = "submit_prizes"
	CapBypassApproval Capability = "bypass_approval"
	CapVote           Capability = "vote"
	CapPayPrize       Capability = "pay_prize"
	CapDeposit        Capability = "deposit"
	CapManageSettings Capability = "manage_settings"
	CapViewAll        Capability = "view_all"
)

var permissions = map[Capability][]Role{
	CapManageLottos:   {RoleAdmin, RoleManager},
	CapParticipate:    {RoleStaff, RoleAgent},
	CapCancelTicket:   {RoleAdmin, RoleStaff, RoleAgent},
	CapSubmitPrizes:   {RoleAdmin, RoleManager, RoleStaff},
	CapBypassApproval: {RoleAdmin},
	CapVote:           {RoleManager},
	CapPayPrize:       {RoleAdmin, RoleManager, RoleStaff},
	CapDeposit:        {RoleAdmin},
	CapManageSettings: {RoleAdmin},
	CapViewAll:        {RoleAdmin, RoleManager},
}

// Can reports whether role holds capability c.
func Can(role Role, c Capability) bool {
	for _, r := range permissions[c] {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Can(c Capability) bool {
	return Can(a.Role, c)
}

// Require returns ErrUnauthorized unless the actor holds c.
func (a Actor) Require(c Capability) error {
	if !a.Can(c) {
		return ErrUnauthorized.With("role %q lacks %s", a.Role, c)
	}
	return nil
}

// CanCancelTicket is role based only: any agent, staff or admin may cancel any
// active ticket, not just the seller.
func CanCancelTicket(actor Actor, _ *Participation) bool {
	return actor.Can(CapCancelTicket)
}

func CanVote(actor Actor) bool {
	return actor.Can(CapVote)
}

// CanView reports whether actor may read records owned by ownerID.
func CanView(actor Actor, ownerID string) bool {
	return actor.ID == ownerID || actor.Can(CapViewAll)
}
