package avatar

import (
	"encoding/binary"
	"regexp"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
)

var (
	isCollectionName   = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString
	isCollectionSymbol = regexp.MustCompile(`^[A-Z0-9]{2,8}$`).MatchString
)

// Collection groups avatars minted by the same registry.
type Collection struct {
	Metadata *custody.Metadata `json:"metadata"`
	Name     string            `json:"name"`
	Symbol   string            `json:"symbol"`
	// NextID is the id assigned to the next minted avatar.
	NextID uint64 `json:"next_id"`
}

var _ orm.Model = (*Collection)(nil)

func (c *Collection) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if !isCollectionName(c.Name) {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrInput, "invalid collection name %q", c.Name))
	}
	if !isCollectionSymbol(c.Symbol) {
		errs = errors.Append(errs, errors.Field("Symbol", errors.ErrInput, "invalid collection symbol %q", c.Symbol))
	}
	return errs
}

func (c *Collection) Copy() orm.Model {
	cpy := *c
	cpy.Metadata = c.Metadata.Copy()
	return &cpy
}

func (c *Collection) Marshal() ([]byte, error) {
	return custody.Encode(c)
}

func (c *Collection) Unmarshal(raw []byte) error {
	return custody.Decode(raw, c)
}

// Avatar is a single non fungible asset.
type Avatar struct {
	Metadata   *custody.Metadata `json:"metadata"`
	Collection custody.Address   `json:"collection"`
	ID         uint64            `json:"id"`
	Owner      custody.Address   `json:"owner"`
	// Approved may transfer the avatar on behalf of the owner. Empty when
	// nobody is approved.
	Approved custody.Address `json:"approved,omitempty"`
}

var _ orm.Model = (*Avatar)(nil)

func (a *Avatar) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Collection", a.Collection.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	if len(a.Approved) != 0 {
		errs = errors.AppendField(errs, "Approved", a.Approved.Validate())
	}
	return errs
}

func (a *Avatar) Copy() orm.Model {
	return &Avatar{
		Metadata:   a.Metadata.Copy(),
		Collection: a.Collection.Clone(),
		ID:         a.ID,
		Owner:      a.Owner.Clone(),
		Approved:   a.Approved.Clone(),
	}
}

func (a *Avatar) Marshal() ([]byte, error) {
	return custody.Encode(a)
}

func (a *Avatar) Unmarshal(raw []byte) error {
	return custody.Decode(raw, a)
}

// CollectionCondition returns the condition of a collection created with
// given sequence value.
func CollectionCondition(key []byte) custody.Condition {
	return custody.NewCondition("avatar", "seq", key)
}

var collectionSeq = orm.NewSequence("collection", "id")

// NewCollectionBucket returns a bucket holding collections keyed by their
// address.
func NewCollectionBucket() orm.ModelBucket {
	return orm.NewModelBucket("collection", &Collection{})
}

// NewAvatarBucket returns a bucket holding avatars keyed by collection
// address and id. Avatars are indexed by owner.
func NewAvatarBucket() orm.ModelBucket {
	return orm.NewModelBucket("avatar", &Avatar{},
		orm.WithIndex("owner", avatarOwner, false),
	)
}

func avatarOwner(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	a, ok := obj.Value().(*Avatar)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of Avatar, got %T", obj.Value())
	}
	return a.Owner, nil
}

func avatarKey(collection custody.Address, id uint64) []byte {
	key := make([]byte, len(collection)+8)
	copy(key, collection)
	binary.BigEndian.PutUint64(key[len(collection):], id)
	return key
}
