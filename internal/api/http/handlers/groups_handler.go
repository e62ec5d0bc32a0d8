package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallet-service/internal/api/dto"
	"github.com/spec-kit/wallet-service/internal/auth"
	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/service"
)

// GroupsHandler exposes shared-group management.
type GroupsHandler struct {
	groups *service.GroupService
	auth   *service.AuthService
	policy *auth.Policy
}

// NewGroupsHandler constructs handler.
func NewGroupsHandler(groups *service.GroupService, authService *service.AuthService, policy *auth.Policy) *GroupsHandler {
	return &GroupsHandler{groups: groups, auth: authService, policy: policy}
}

// CreateGroup handles POST /api/groups. Any authenticated session; the
// caller is folded into the member list.
func (h *GroupsHandler) CreateGroup(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.Simple())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Name == nil || req.MemberEmails == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}

	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return badRequest(c, "req.body.name is an empty string")
	}
	if len(*req.MemberEmails) == 0 {
		return badRequest(c, "req.body.memberEmails is an empty array")
	}

	callerEmail, err := h.auth.CallerEmail(c.Cookies(auth.RefreshCookie))
	if err != nil {
		return unauthorized(c, err.Error())
	}

	group, membership, err := h.groups.Create(c.Context(), name, *req.MemberEmails, callerEmail)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.GroupAddResponse{
		Group:           toGroupResponse(group),
		AlreadyInGroup:  emptyIfNil(membership.AlreadyInGroup),
		MembersNotFound: emptyIfNil(membership.MembersNotFound),
	})
}

// GetGroups handles GET /api/groups. Admin only.
func (h *GroupsHandler) GetGroups(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	groups, err := h.groups.List(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	return dataJSON(c, decision, out)
}

// GetGroup handles GET /api/groups/:name. Admins can read any group;
// otherwise the session email must belong to it.
func (h *GroupsHandler) GetGroup(c *fiber.Ctx) error {
	name := c.Params("name")

	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		emails, err := h.groups.MemberEmails(c.Context(), name)
		if err != nil {
			return badRequest(c, err.Error())
		}
		decision = authorize(c, h.policy, auth.InGroup(emails))
		if !decision.Granted {
			return unauthorized(c, decision.Reason)
		}
	}

	group, err := h.groups.GetByName(c.Context(), name)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, fiber.Map{"group": toGroupResponse(group)})
}

// AddToGroup handles PATCH /api/groups/:name/add (member route).
func (h *GroupsHandler) AddToGroup(c *fiber.Ctx) error {
	return h.changeMembers(c, false, h.addMembers)
}

// InsertToGroup handles PATCH /api/groups/:name/insert (admin route).
func (h *GroupsHandler) InsertToGroup(c *fiber.Ctx) error {
	return h.changeMembers(c, true, h.addMembers)
}

// RemoveFromGroup handles PATCH /api/groups/:name/remove (member route).
func (h *GroupsHandler) RemoveFromGroup(c *fiber.Ctx) error {
	return h.changeMembers(c, false, h.removeMembers)
}

// PullFromGroup handles PATCH /api/groups/:name/pull (admin route).
func (h *GroupsHandler) PullFromGroup(c *fiber.Ctx) error {
	return h.changeMembers(c, true, h.removeMembers)
}

type memberChange func(c *fiber.Ctx, decision auth.Decision, name string, emails []string) error

// changeMembers factors the shared shape of the four membership routes:
// the admin twins require Admin, the member twins require membership in
// the target group.
func (h *GroupsHandler) changeMembers(c *fiber.Ctx, adminRoute bool, apply memberChange) error {
	name := c.Params("name")

	var decision auth.Decision
	if adminRoute {
		decision = authorize(c, h.policy, auth.AsAdmin())
	} else {
		emails, err := h.groups.MemberEmails(c.Context(), name)
		if err != nil {
			return badRequest(c, err.Error())
		}
		decision = authorize(c, h.policy, auth.InGroup(emails))
	}
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.GroupMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Emails == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}
	if len(*req.Emails) == 0 {
		return badRequest(c, "req.body.emails is an empty array")
	}

	return apply(c, decision, name, *req.Emails)
}

func (h *GroupsHandler) addMembers(c *fiber.Ctx, decision auth.Decision, name string, emails []string) error {
	group, membership, err := h.groups.AddMembers(c.Context(), name, emails)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.GroupAddResponse{
		Group:           toGroupResponse(group),
		AlreadyInGroup:  emptyIfNil(membership.AlreadyInGroup),
		MembersNotFound: emptyIfNil(membership.MembersNotFound),
	})
}

func (h *GroupsHandler) removeMembers(c *fiber.Ctx, decision auth.Decision, name string, emails []string) error {
	group, removal, err := h.groups.RemoveMembers(c.Context(), name, emails)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.GroupRemoveResponse{
		Group:           toGroupResponse(group),
		NotInGroup:      emptyIfNil(removal.NotInGroup),
		MembersNotFound: emptyIfNil(removal.MembersNotFound),
	})
}

// DeleteGroup handles DELETE /api/groups. Admin only.
func (h *GroupsHandler) DeleteGroup(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.DeleteGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Name == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}

	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return badRequest(c, "req.body.name is an empty string")
	}

	if err := h.groups.Delete(c.Context(), name); err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, fiber.Map{"message": "Group deleted successfully"})
}

func toGroupResponse(group *domain.Group) dto.GroupResponse {
	members := make([]dto.GroupMemberResponse, 0, len(group.Members))
	for _, m := range group.Members {
		members = append(members, dto.GroupMemberResponse{Email: m.Email})
	}
	return dto.GroupResponse{Name: group.Name, Members: members}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
