package dto

// CreateGroupRequest payload for making a new group.
type CreateGroupRequest struct {
	Name         *string   `json:"name"`
	MemberEmails *[]string `json:"memberEmails"`
}

// GroupMembersRequest payload for add/remove membership calls.
type GroupMembersRequest struct {
	Emails *[]string `json:"emails"`
}

// DeleteGroupRequest names the group to delete.
type DeleteGroupRequest struct {
	Name *string `json:"name"`
}

// GroupMemberResponse is a member entry inside a group body.
type GroupMemberResponse struct {
	Email string `json:"email"`
}

// GroupResponse is the public shape of a group.
type GroupResponse struct {
	Name    string                `json:"name"`
	Members []GroupMemberResponse `json:"members"`
}

// GroupAddResponse reports a group creation or member addition along with
// the emails that could not join.
type GroupAddResponse struct {
	Group           GroupResponse `json:"group"`
	AlreadyInGroup  []string      `json:"alreadyInGroup"`
	MembersNotFound []string      `json:"membersNotFound"`
}

// GroupRemoveResponse reports a member removal along with the emails that
// could not leave.
type GroupRemoveResponse struct {
	Group           GroupResponse `json:"group"`
	NotInGroup      []string      `json:"notInGroup"`
	MembersNotFound []string      `json:"membersNotFound"`
}
