package avatar

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
)

// Controller manages collections and their avatars.
type Controller struct {
	collections orm.ModelBucket
	avatars     orm.ModelBucket
}

// NewController returns a controller using the default buckets.
func NewController() *Controller {
	return &Controller{
		collections: NewCollectionBucket(),
		avatars:     NewAvatarBucket(),
	}
}

// CreateCollection stores a new collection and returns its address.
func (c *Controller) CreateCollection(db custody.KVStore, col *Collection) (custody.Address, error) {
	if err := col.Validate(); err != nil {
		return nil, errors.Wrap(err, "collection")
	}
	key, err := collectionSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}
	addr := CollectionCondition(key).Address()
	if _, err := c.collections.Put(db, addr, col); err != nil {
		return nil, errors.Wrap(err, "cannot store collection")
	}
	return addr, nil
}

// Collection returns the collection stored under given address.
func (c *Controller) Collection(db custody.ReadOnlyKVStore, addr custody.Address) (*Collection, error) {
	var col Collection
	if err := c.collections.One(db, addr, &col); err != nil {
		return nil, errors.Wrapf(err, "collection %s", addr)
	}
	return &col, nil
}

// Avatar returns a single avatar.
func (c *Controller) Avatar(db custody.ReadOnlyKVStore, collection custody.Address, id uint64) (*Avatar, error) {
	var a Avatar
	if err := c.avatars.One(db, avatarKey(collection, id), &a); err != nil {
		return nil, errors.Wrapf(err, "ERC721: invalid token ID %d", id)
	}
	return &a, nil
}

// Mint creates a new avatar owned by the given account. Ids are assigned
// sequentially, starting from zero.
func (c *Controller) Mint(db custody.KVStore, collection, owner custody.Address) (uint64, error) {
	col, err := c.Collection(db, collection)
	if err != nil {
		return 0, err
	}
	id := col.NextID
	col.NextID++
	if _, err := c.collections.Put(db, collection, col); err != nil {
		return 0, errors.Wrap(err, "cannot store collection")
	}

	a := &Avatar{
		Metadata:   &custody.Metadata{Schema: 1},
		Collection: collection,
		ID:         id,
		Owner:      owner,
	}
	if _, err := c.avatars.Put(db, avatarKey(collection, id), a); err != nil {
		return 0, errors.Wrap(err, "cannot store avatar")
	}
	return id, nil
}

// OwnerOf returns the owner of the avatar.
func (c *Controller) OwnerOf(db custody.ReadOnlyKVStore, collection custody.Address, id uint64) (custody.Address, error) {
	a, err := c.Avatar(db, collection, id)
	if err != nil {
		return nil, err
	}
	return a.Owner, nil
}

// IsApprovedOrOwner returns true if spender owns the avatar or is approved
// to transfer it.
func (c *Controller) IsApprovedOrOwner(db custody.ReadOnlyKVStore, collection, spender custody.Address, id uint64) (bool, error) {
	a, err := c.Avatar(db, collection, id)
	if err != nil {
		return false, err
	}
	return spender.Equals(a.Owner) || (len(a.Approved) != 0 && spender.Equals(a.Approved)), nil
}

// Approve allows the spender to transfer the avatar. Only the owner can
// approve. An empty spender clears the approval.
func (c *Controller) Approve(db custody.KVStore, collection, caller, spender custody.Address, id uint64) error {
	a, err := c.Avatar(db, collection, id)
	if err != nil {
		return err
	}
	if !caller.Equals(a.Owner) {
		return errors.Wrap(ErrNotOwnerOrApproved, "approve")
	}
	if spender.Equals(a.Owner) {
		return errors.Wrap(errors.ErrInput, "ERC721: approval to current owner")
	}
	a.Approved = spender
	_, err = c.avatars.Put(db, avatarKey(collection, id), a)
	return err
}

// TransferFrom moves the avatar from its owner to a new account. The caller
// must be the owner or the approved account.
func (c *Controller) TransferFrom(db custody.KVStore, collection, caller, from, to custody.Address, id uint64) error {
	a, err := c.Avatar(db, collection, id)
	if err != nil {
		return err
	}
	if !caller.Equals(a.Owner) && !(len(a.Approved) != 0 && caller.Equals(a.Approved)) {
		return errors.Wrapf(ErrNotOwnerOrApproved, "avatar %d", id)
	}
	if !from.Equals(a.Owner) {
		return errors.Wrapf(ErrIncorrectOwner, "avatar %d", id)
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "ERC721: transfer to the zero address")
	}
	a.Owner = to
	a.Approved = nil
	if _, err := c.avatars.Put(db, avatarKey(collection, id), a); err != nil {
		return errors.Wrap(err, "cannot store avatar")
	}
	return nil
}

// AvatarsOf returns all avatars owned by the account.
func (c *Controller) AvatarsOf(db custody.ReadOnlyKVStore, owner custody.Address) ([]Avatar, error) {
	var avatars []Avatar
	if _, err := c.avatars.ByIndex(db, "owner", owner, &avatars); err != nil {
		return nil, err
	}
	return avatars, nil
}
