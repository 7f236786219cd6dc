package response

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: uuid.UUID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(uuid.UUID).String(), nil
			},
		},
	},
}

// copyFrom copies same-named fields from src into dst, rendering UUIDs as strings.
func copyFrom(dst, src any) error {
	return copier.CopyWithOption(dst, src, copyOption)
}
