package registry

import (
	"context"

	"github.com/deedchain/registry/common"
)

// RegisterUser registers the session wallet with the given display fields.
// Profiles are immutable once registered; the registry rejects duplicates.
func (c *Client) RegisterUser(ctx context.Context, username, pan string) *Receipt {
	name, err := EncodeBytes32String(username)
	if err != nil {
		return failedReceipt(err.Error())
	}

	panHash, err := EncodeBytes32String(pan)
	if err != nil {
		return failedReceipt(err.Error())
	}

	return c.command(ctx, "user.register", "registerUser", nil, name, panHash)
}

// IsUserRegistered reports whether a profile exists for the given wallet
func (c *Client) IsUserRegistered(ctx context.Context, wallet string) (bool, error) {
	addr, err := NormalizeAddress(wallet)
	if err != nil {
		return false, err
	}

	values, err := c.call(ctx, "isUserRegistered", addr)
	if err != nil {
		return false, err
	}

	return newTuple(values).boolAt(field{"registered", 0}), nil
}

// FetchUser resolves the profile registered for the given wallet; a missing
// or unreadable profile resolves to nil rather than an error.
func (c *Client) FetchUser(ctx context.Context, wallet string) (*User, error) {
	addr, err := NormalizeAddress(wallet)
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, "fetchUserDetail", addr)
	if err != nil {
		common.Log.Debugf("failed to fetch user %s; %s", wallet, err.Error())
		return nil, nil
	}

	user := decodeUser(values)
	if !user.Exists {
		return nil, nil
	}

	return user, nil
}

// FetchAllUsers lists every registered profile
func (c *Client) FetchAllUsers(ctx context.Context) ([]*User, error) {
	values, err := c.call(ctx, "fetchAllUsers")
	if err != nil {
		return nil, err
	}

	return decodeUserList(newTuple(values).value(field{"users", 0}))
}

// AddContact appends a directed owner -> contact edge for the session wallet
func (c *Client) AddContact(ctx context.Context, contact string) *Receipt {
	addr, err := NormalizeAddress(contact)
	if err != nil {
		return failedReceipt(err.Error())
	}

	return c.command(ctx, "contact.add", "addToMyContacts", nil, addr)
}

// FetchContacts lists the contact profiles recorded for the given wallet
func (c *Client) FetchContacts(ctx context.Context, wallet string) ([]*User, error) {
	addr, err := NormalizeAddress(wallet)
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, "fetchMyContacts", addr)
	if err != nil {
		return nil, err
	}

	return decodeUserList(newTuple(values).value(field{"contacts", 0}))
}

func decodeUserList(raw interface{}, ok bool) ([]*User, error) {
	users := make([]*User, 0)
	if !ok {
		return users, nil
	}

	for _, element := range tupleElements(raw) {
		users = append(users, decodeUser(element))
	}

	return users, nil
}
