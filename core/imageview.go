// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "fmt"

// colorViewCreateInfo describes a 2D identity-mapped view over the
// single color mip level and layer of img.
func colorViewCreateInfo(img ImageHandle, format Format) ImageViewCreateInfo {
	return ImageViewCreateInfo{
		Image:    img,
		ViewType: ImageViewType2D,
		Format:   format,
		Components: ComponentMapping{
			R: ComponentSwizzleIdentity,
			G: ComponentSwizzleIdentity,
			B: ComponentSwizzleIdentity,
			A: ComponentSwizzleIdentity,
		},
		Range: SubresourceRange{
			Aspect:         ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}

// createImageViews creates one view per image in order. Either all views
// are returned or none are left alive.
func createImageViews(driver Driver, device DeviceHandle, images []ImageHandle, format Format) ([]ImageViewHandle, error) {
	views := make([]ImageViewHandle, 0, len(images))
	for idx, img := range images {
		view, err := driver.CreateImageView(device, colorViewCreateInfo(img, format))
		if err != nil {
			for i := len(views) - 1; i >= 0; i-- {
				driver.DestroyImageView(device, views[i])
			}
			return nil, failure(ErrImageViewCreationFailed, err, fmt.Sprintf("image %d", idx))
		}
		views = append(views, view)
	}
	return views, nil
}
