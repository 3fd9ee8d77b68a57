package kernel

// Typed identifiers for the identity graph. All are UUID strings; the
// newtypes keep a user id from ever being passed where a role id belongs.

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type TenantID string

func NewTenantID(id string) TenantID { return TenantID(id) }
func (t TenantID) String() string    { return string(t) }
func (t TenantID) IsEmpty() bool     { return string(t) == "" }

type OrgID string

func NewOrgID(id string) OrgID { return OrgID(id) }
func (o OrgID) String() string { return string(o) }
func (o OrgID) IsEmpty() bool  { return string(o) == "" }

type RoleID string

func NewRoleID(id string) RoleID { return RoleID(id) }
func (r RoleID) String() string  { return string(r) }
func (r RoleID) IsEmpty() bool   { return string(r) == "" }

type PermissionID string

func NewPermissionID(id string) PermissionID { return PermissionID(id) }
func (p PermissionID) String() string        { return string(p) }
func (p PermissionID) IsEmpty() bool         { return string(p) == "" }
