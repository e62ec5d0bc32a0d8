package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/events"
	"github.com/spec-kit/wallet-service/internal/repository"
	"github.com/spec-kit/wallet-service/pkg/util"
)

// Group flow errors surfaced to handlers as 400s.
var (
	ErrGroupNotFound      = errors.New("this group does not exist")
	ErrNoJoinableMembers  = errors.New("all the provided emails represent users that do not exist in the database or are already in another group")
	ErrNoRemovableMembers = errors.New("all the provided emails represent users that do not exist in the database or do not belong to the group")
	ErrCallerUnknown      = errors.New("the user who calls the API is not in the database")
	ErrCallerGrouped      = errors.New("the user who calls the API is already in another group")
	ErrSingleMemberGroup  = errors.New("you cannot create a group with only one member")
	ErrLastMember         = errors.New("you cannot remove any user from a group containing only one member")
)

// GroupEmailCache is the subset of the Redis cache the services need.
// persistence.GroupCache satisfies it; tests use a no-op fake.
type GroupEmailCache interface {
	GetEmails(ctx context.Context, name string) ([]string, bool)
	SetEmails(ctx context.Context, name string, emails []string)
	Invalidate(ctx context.Context, name string)
}

// GroupService manages shared groups and their membership set algebra.
type GroupService struct {
	groups     repository.GroupRepository
	users      repository.UserRepository
	cache      GroupEmailCache
	dispatcher events.Dispatcher
}

// NewGroupService builds the service. The dispatcher may be nil.
func NewGroupService(groups repository.GroupRepository, users repository.UserRepository, cache GroupEmailCache, dispatcher events.Dispatcher) *GroupService {
	return &GroupService{groups: groups, users: users, cache: cache, dispatcher: dispatcher}
}

// Membership classifies candidate emails relative to the whole system:
// joinable members, emails already claimed by some group, and emails with
// no matching account.
type Membership struct {
	Members         []domain.GroupMember
	AlreadyInGroup  []string
	MembersNotFound []string
}

// Create makes a new group. The caller (identified by callerEmail) is
// folded into the member list whether or not it was named, and must be
// neither unknown nor already grouped.
func (s *GroupService) Create(ctx context.Context, name string, memberEmails []string, callerEmail string) (*domain.Group, *Membership, error) {
	if _, err := s.groups.GetByName(ctx, name); err == nil {
		return nil, nil, fmt.Errorf("%s already exists as a group name", name)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	emails := dedupe(memberEmails)
	if !contains(emails, callerEmail) {
		emails = append(emails, callerEmail)
	}

	classified := &Membership{}
	for _, email := range emails {
		if err := checkEmail(email); err != nil {
			return nil, nil, err
		}

		user, err := s.users.GetByEmail(ctx, email)
		if errors.Is(err, pgx.ErrNoRows) {
			if email == callerEmail {
				return nil, nil, ErrCallerUnknown
			}
			classified.MembersNotFound = append(classified.MembersNotFound, email)
			continue
		} else if err != nil {
			return nil, nil, err
		}

		if _, err := s.groups.GetByMemberEmail(ctx, email); err == nil {
			if email == callerEmail {
				return nil, nil, ErrCallerGrouped
			}
			classified.AlreadyInGroup = append(classified.AlreadyInGroup, email)
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}

		classified.Members = append(classified.Members, domain.GroupMember{Email: email, UserID: user.ID})
	}

	if len(emails) > 1 && len(classified.MembersNotFound)+len(classified.AlreadyInGroup) == len(emails)-1 {
		return nil, nil, ErrNoJoinableMembers
	}
	if len(classified.Members) == 1 {
		return nil, nil, ErrSingleMemberGroup
	}

	group := &domain.Group{
		ID:      uuid.NewString(),
		Name:    name,
		Members: classified.Members,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, nil, err
	}

	publish(ctx, s.dispatcher, events.EventGroupCreated, name, events.GroupMembersChangedPayload{
		Added: group.MemberEmails(),
	})
	return group, classified, nil
}

// List returns every group with its members.
func (s *GroupService) List(ctx context.Context) ([]*domain.Group, error) {
	return s.groups.List(ctx)
}

// GetByName returns a single group with its members.
func (s *GroupService) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

// MemberEmails returns the member emails for a group, consulting the cache
// first. This is the lookup behind every Group-mode authorization check.
func (s *GroupService) MemberEmails(ctx context.Context, name string) ([]string, error) {
	if emails, ok := s.cache.GetEmails(ctx, name); ok {
		return emails, nil
	}
	group, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	emails := group.MemberEmails()
	s.cache.SetEmails(ctx, name, emails)
	return emails, nil
}

// AddMembers joins the classifiable candidates to the group.
func (s *GroupService) AddMembers(ctx context.Context, name string, candidateEmails []string) (*domain.Group, *Membership, error) {
	if _, err := s.GetByName(ctx, name); err != nil {
		return nil, nil, err
	}

	emails := dedupe(candidateEmails)
	classified := &Membership{}
	for _, email := range emails {
		if err := checkEmail(email); err != nil {
			return nil, nil, err
		}

		user, err := s.users.GetByEmail(ctx, email)
		if errors.Is(err, pgx.ErrNoRows) {
			classified.MembersNotFound = append(classified.MembersNotFound, email)
			continue
		} else if err != nil {
			return nil, nil, err
		}

		if _, err := s.groups.GetByMemberEmail(ctx, email); err == nil {
			classified.AlreadyInGroup = append(classified.AlreadyInGroup, email)
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}

		classified.Members = append(classified.Members, domain.GroupMember{Email: email, UserID: user.ID})
	}

	if len(classified.MembersNotFound)+len(classified.AlreadyInGroup) == len(emails) {
		return nil, nil, ErrNoJoinableMembers
	}

	if err := s.groups.AddMembers(ctx, name, classified.Members); err != nil {
		return nil, nil, err
	}
	s.cache.Invalidate(ctx, name)

	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	addedEmails := make([]string, 0, len(classified.Members))
	for _, m := range classified.Members {
		addedEmails = append(addedEmails, m.Email)
	}
	publish(ctx, s.dispatcher, events.EventGroupMembersChanged, name, events.GroupMembersChangedPayload{
		Added: addedEmails,
	})
	return group, classified, nil
}

// Removal classifies candidate emails for removal: emails leaving the
// group, emails with no account, and emails not in this group.
type Removal struct {
	Removed         []string
	MembersNotFound []string
	NotInGroup      []string
}

// RemoveMembers drops the classifiable candidates from the group. A group
// is never emptied: when every member was named, the first member stays.
func (s *GroupService) RemoveMembers(ctx context.Context, name string, candidateEmails []string) (*domain.Group, *Removal, error) {
	group, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if len(group.Members) == 1 {
		return nil, nil, ErrLastMember
	}

	emails := dedupe(candidateEmails)
	classified := &Removal{}
	for _, email := range emails {
		if err := checkEmail(email); err != nil {
			return nil, nil, err
		}

		if _, err := s.users.GetByEmail(ctx, email); errors.Is(err, pgx.ErrNoRows) {
			classified.MembersNotFound = append(classified.MembersNotFound, email)
			continue
		} else if err != nil {
			return nil, nil, err
		}

		if !group.HasMember(email) {
			classified.NotInGroup = append(classified.NotInGroup, email)
			continue
		}
		classified.Removed = append(classified.Removed, email)
	}

	if len(classified.MembersNotFound)+len(classified.NotInGroup) == len(emails) {
		return nil, nil, ErrNoRemovableMembers
	}
	if len(classified.Removed) == len(group.Members) {
		classified.Removed = classified.Removed[1:]
	}

	if err := s.groups.RemoveMembers(ctx, name, classified.Removed); err != nil {
		return nil, nil, err
	}
	s.cache.Invalidate(ctx, name)

	updated, err := s.groups.GetByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	publish(ctx, s.dispatcher, events.EventGroupMembersChanged, name, events.GroupMembersChangedPayload{
		Removed: classified.Removed,
	})
	return updated, classified, nil
}

// Delete removes a group entirely.
func (s *GroupService) Delete(ctx context.Context, name string) error {
	if err := s.groups.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("group %s does not exist", name)
		}
		return err
	}
	s.cache.Invalidate(ctx, name)
	publish(ctx, s.dispatcher, events.EventGroupDeleted, name, nil)
	return nil
}

// MemberUsernames resolves the member emails of a group to account
// usernames, for transaction listings scoped to a group.
func (s *GroupService) MemberUsernames(ctx context.Context, group *domain.Group) ([]string, error) {
	usernames := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		user, err := s.users.GetByEmail(ctx, m.Email)
		if err != nil {
			return nil, err
		}
		usernames = append(usernames, user.Username)
	}
	return usernames, nil
}

func checkEmail(email string) error {
	if email == "" {
		return errors.New("one of the emails in the array is an empty string")
	}
	if !util.ValidateEmail(email) {
		return fmt.Errorf("%s is not a valid email format", email)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
