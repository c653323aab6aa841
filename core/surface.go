// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

func createSurface(window Window, instance InstanceHandle) (SurfaceHandle, error) {
	surface, err := window.CreateSurface(instance)
	if err != nil {
		return nil, failure(ErrSurfaceCreationFailed, err, "")
	}
	if surface == nil {
		return nil, failure(ErrSurfaceCreationFailed, nil, "window returned no surface")
	}
	return surface, nil
}
