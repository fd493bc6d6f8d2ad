package orm

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// counter is a minimal model used by the tests of this package.
type counter struct {
	Metadata *custody.Metadata `json:"metadata"`
	Owner    []byte            `json:"owner"`
	Count    int64             `json:"count"`
}

var _ Model = (*counter)(nil)

func newCounter(owner string, count int64) *counter {
	return &counter{
		Metadata: &custody.Metadata{Schema: 1},
		Owner:    []byte(owner),
		Count:    count,
	}
}

func (c *counter) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInput, "negative count")
	}
	return nil
}

func (c *counter) Copy() Model {
	cpy := *c
	cpy.Metadata = c.Metadata.Copy()
	return &cpy
}

func (c *counter) Marshal() ([]byte, error) {
	return custody.Encode(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return custody.Decode(raw, c)
}

func counterOwner(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	if len(c.Owner) == 0 {
		return nil, nil
	}
	return c.Owner, nil
}
