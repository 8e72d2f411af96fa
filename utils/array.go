package utils

func StringInSlice(target string, list []string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

// RemoveString 移除首个等于 target 的元素
func RemoveString(slice []string, target string) []string {
	for i, item := range slice {
		if item == target {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
