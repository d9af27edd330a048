package entity

// TeamMember represents one team assignment record.
// The directory is read-only here; assignment lifecycle is owned by the
// project-management side of the system.
type TeamMember struct {
	Id           int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Email        string `json:"email" gorm:"column:email;index"`
	Name         string `json:"name" gorm:"column:name"`
	Role         string `json:"role" gorm:"column:role"`
	Expertise    string `json:"expertise" gorm:"column:expertise"`
	Availability string `json:"availability" gorm:"column:availability"`
	Confirmed    bool   `json:"confirmed" gorm:"column:confirmed"`
	Assigned     bool   `json:"assigned" gorm:"column:assigned"`
	ProjectId    string `json:"project_id" gorm:"column:project_id;index"`
	CreatedAt    int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt    int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for TeamMember
func (TeamMember) TableName() string {
	return "team_assignments"
}

// TeamMemberInfo represents a directory entry for API response
type TeamMemberInfo struct {
	Id    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ToTeamMemberInfo converts TeamMember to TeamMemberInfo
func (t *TeamMember) ToTeamMemberInfo() *TeamMemberInfo {
	return &TeamMemberInfo{
		Id:    t.Id,
		Email: t.Email,
		Name:  t.Name,
		Role:  t.Role,
	}
}
